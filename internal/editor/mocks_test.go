package editor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/larder/internal/domain"
	"github.com/hammamikhairi/larder/internal/logger"
	"github.com/hammamikhairi/larder/internal/storage"
)

// recordingStore wraps a MemoryStore, records every call and can be told
// to fail or block on an operation.
type recordingStore struct {
	*storage.MemoryStore

	mu    sync.Mutex
	calls []string
	fail  map[string]error
	block map[string]bool
}

func newRecordingStore() *recordingStore {
	return &recordingStore{
		MemoryStore: storage.NewMemoryStore(logger.New(logger.LevelOff, nil)),
		fail:        make(map[string]error),
		block:       make(map[string]bool),
	}
}

func (r *recordingStore) record(ctx context.Context, op string) error {
	r.mu.Lock()
	r.calls = append(r.calls, op)
	err := r.fail[op]
	block := r.block[op]
	r.mu.Unlock()

	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (r *recordingStore) failOn(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.fail, op)
		return
	}
	r.fail[op] = err
}

func (r *recordingStore) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

// writes returns the recorded mutating calls.
func (r *recordingStore) writes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, c := range r.calls {
		if c != "LoadRecipes" && c != "LoadTags" {
			out = append(out, c)
		}
	}
	return out
}

func (r *recordingStore) LoadRecipes(ctx context.Context) ([]*domain.Recipe, error) {
	if err := r.record(ctx, "LoadRecipes"); err != nil {
		return nil, err
	}
	return r.MemoryStore.LoadRecipes(ctx)
}

func (r *recordingStore) LoadTags(ctx context.Context) ([]string, error) {
	if err := r.record(ctx, "LoadTags"); err != nil {
		return nil, err
	}
	return r.MemoryStore.LoadTags(ctx)
}

func (r *recordingStore) InsertRecipe(ctx context.Context, rec *domain.Recipe) error {
	if err := r.record(ctx, "InsertRecipe"); err != nil {
		return err
	}
	return r.MemoryStore.InsertRecipe(ctx, rec)
}

func (r *recordingStore) DeleteRecipe(ctx context.Context, title string) error {
	if err := r.record(ctx, "DeleteRecipe"); err != nil {
		return err
	}
	return r.MemoryStore.DeleteRecipe(ctx, title)
}

func (r *recordingStore) UpdateRecipeField(ctx context.Context, title string, field domain.Field, value any) error {
	if err := r.record(ctx, "UpdateRecipeField"); err != nil {
		return err
	}
	return r.MemoryStore.UpdateRecipeField(ctx, title, field, value)
}

func (r *recordingStore) InsertTag(ctx context.Context, title, tag string) error {
	if err := r.record(ctx, "InsertTag"); err != nil {
		return err
	}
	return r.MemoryStore.InsertTag(ctx, title, tag)
}

func (r *recordingStore) DeleteTag(ctx context.Context, title, tag string) error {
	if err := r.record(ctx, "DeleteTag"); err != nil {
		return err
	}
	return r.MemoryStore.DeleteTag(ctx, title, tag)
}

func (r *recordingStore) InsertIngredient(ctx context.Context, title string, ing domain.Ingredient) error {
	if err := r.record(ctx, "InsertIngredient"); err != nil {
		return err
	}
	return r.MemoryStore.InsertIngredient(ctx, title, ing)
}

func (r *recordingStore) UpdateIngredient(ctx context.Context, title string, ing domain.Ingredient) error {
	if err := r.record(ctx, "UpdateIngredient"); err != nil {
		return err
	}
	return r.MemoryStore.UpdateIngredient(ctx, title, ing)
}

func (r *recordingStore) DeleteIngredient(ctx context.Context, title, name string) error {
	if err := r.record(ctx, "DeleteIngredient"); err != nil {
		return err
	}
	return r.MemoryStore.DeleteIngredient(ctx, title, name)
}

// recordingNotifier collects notifications.
type recordingNotifier struct {
	mu     sync.Mutex
	normal []string
	urgent []string
}

func (n *recordingNotifier) Notify(ctx context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.normal = append(n.normal, message)
	return nil
}

func (n *recordingNotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.urgent = append(n.urgent, message)
	return nil
}

func (n *recordingNotifier) counts() (normal, urgent int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.normal), len(n.urgent)
}

func fixedClock() time.Time {
	return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
}

// setupSession seeds a store with the given recipes and loads a session
// over it. Recorded calls are cleared after loading.
func setupSession(t *testing.T, seed ...*domain.Recipe) (*Session, *recordingStore, *recordingNotifier, context.Context) {
	t.Helper()
	ctx := context.Background()
	store := newRecordingStore()
	for _, r := range seed {
		if err := store.MemoryStore.InsertRecipe(ctx, r); err != nil {
			t.Fatalf("seeding %q: %v", r.Title, err)
		}
	}
	notifier := &recordingNotifier{}
	s := New(store, notifier, logger.New(logger.LevelOff, nil), WithClock(fixedClock))
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	store.reset()
	return s, store, notifier, ctx
}

func recipeNamed(title string, ingredients ...string) *domain.Recipe {
	r := domain.NewRecipe()
	r.Title = title
	r.Duration = 40
	r.Portions = 4
	for _, name := range ingredients {
		r.Ingredients = append(r.Ingredients, domain.Ingredient{Name: name, Quantity: 1, Unit: "g"})
	}
	return r
}

func storedRecipes(t *testing.T, store *recordingStore) []*domain.Recipe {
	t.Helper()
	recipes, err := store.MemoryStore.LoadRecipes(context.Background())
	if err != nil {
		t.Fatalf("loading stored recipes: %v", err)
	}
	return recipes
}

func testLogger() *logger.Logger {
	return logger.New(logger.LevelOff, nil)
}
