// Package editor implements the recipe editing session: per-field commits,
// the tag and ingredient reconcilers, the auto-save sweep, navigation over
// the loaded recipes, and the readiness indicator.
//
// A Session is the single owner of the recipe collection. Every public
// method takes the session lock, so a sweep never interleaves with a
// user-initiated commit. Notifications are queued while locked and
// delivered after unlocking.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/larder/internal/domain"
	"github.com/hammamikhairi/larder/internal/logger"
)

// EditState is the per-recipe state of the title.
type EditState int

const (
	// Editable means the title is resolved and every field can be edited.
	Editable EditState = iota
	// TitleSuspended means the title is blank or collides with another
	// recipe. Only the title field can be edited.
	TitleSuspended
)

func (s EditState) String() string {
	switch s {
	case Editable:
		return "editable"
	case TitleSuspended:
		return "title-suspended"
	default:
		return "unknown"
	}
}

// Option configures a Session.
type Option func(*Session)

// WithStoreTimeout bounds every call to the recipe store.
func WithStoreTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithNotifyCooldown suppresses repeats of the same message within d.
func WithNotifyCooldown(d time.Duration) Option {
	return func(s *Session) {
		s.cooldown = d
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// Session is an editing session over all loaded recipes.
type Session struct {
	mu       sync.Mutex
	store    domain.RecipeStore
	notifier domain.Notifier
	log      *logger.Logger
	timeout  time.Duration
	cooldown time.Duration
	now      func() time.Time

	recipes []*domain.Recipe
	index   int
	state   EditState

	drafts [fieldCount]string
	tags   []tagSlot
	rows   []*ingredientRow

	knownTags []string
	available AvailableSet
	readiness float64

	pending  []note
	lastSent map[string]time.Time
}

const fieldCount = int(domain.FieldSteps) + 1

type note struct {
	message string
	urgent  bool
}

// New creates a session. Call Load before using it.
func New(store domain.RecipeStore, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Session {
	s := &Session{
		store:    store,
		notifier: notifier,
		log:      log,
		timeout:  3 * time.Second,
		cooldown: 5 * time.Second,
		now:      time.Now,
		lastSent: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads every recipe from the store and selects the first one. When
// the store cannot be read the session keeps running on an empty
// collection; the returned error is informational. An empty collection
// starts the create flow.
func (s *Session) Load(ctx context.Context) error {
	var loadErr error
	s.do(ctx, func() error {
		var recipes []*domain.Recipe
		err := s.call(ctx, func(ctx context.Context) error {
			var err error
			recipes, err = s.store.LoadRecipes(ctx)
			return err
		})
		if err != nil {
			loadErr = fmt.Errorf("loading recipes: %w", err)
			s.log.Error("%v", loadErr)
			s.urgent("Could not load recipes: %v", err)
			recipes = nil
		}
		s.recipes = recipes
		s.index = 0
		if len(s.recipes) == 0 {
			s.recipes = append(s.recipes, domain.NewRecipe())
		}
		s.refreshKnownTags(ctx)
		s.enter()
		s.log.Info("session loaded with %d recipes", len(s.recipes))
		return nil
	})
	return loadErr
}

// do runs fn under the session lock and then delivers queued
// notifications.
func (s *Session) do(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	err := fn()
	notes := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, n := range notes {
		var nerr error
		if n.urgent {
			nerr = s.notifier.NotifyUrgent(ctx, n.message)
		} else {
			nerr = s.notifier.Notify(ctx, n.message)
		}
		if nerr != nil {
			s.log.Warn("notification failed: %v", nerr)
		}
	}
	return err
}

// call runs one store operation under the session's timeout. Errors the
// store did not classify are reported as storage failures.
func (s *Session) call(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := fn(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrDuplicateKey) || errors.Is(err, domain.ErrStorage) || errors.Is(err, domain.ErrValidation) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}

func (s *Session) inform(format string, args ...any) {
	s.queue(fmt.Sprintf(format, args...), false)
}

func (s *Session) urgent(format string, args ...any) {
	s.queue(fmt.Sprintf(format, args...), true)
}

// queue adds a notification unless the same message went out within the
// cooldown. The sweep retries failed commits every tick, so without this
// a broken store would flood the user.
func (s *Session) queue(message string, urgent bool) {
	now := s.now()
	if last, ok := s.lastSent[message]; ok && now.Sub(last) < s.cooldown {
		s.log.Debug("suppressed repeated notification: %s", message)
		return
	}
	s.lastSent[message] = now
	s.pending = append(s.pending, note{message: message, urgent: urgent})
}

// reportStoreError notifies the user of a failed store call and returns
// err.
func (s *Session) reportStoreError(what string, err error) error {
	s.log.Error("%s: %v", what, err)
	s.urgent("Could not %s: %v", what, err)
	return err
}

// current returns the recipe being edited.
func (s *Session) current() *domain.Recipe {
	return s.recipes[s.index]
}

// enter resets every draft to the committed values of the current recipe
// and derives its state.
func (s *Session) enter() {
	r := s.current()
	s.drafts[domain.FieldTitle] = r.Title
	s.drafts[domain.FieldDuration] = domain.FormatNumber(r.Duration)
	s.drafts[domain.FieldUnit] = r.Unit.String()
	s.drafts[domain.FieldPortions] = fmt.Sprint(r.Portions)
	s.drafts[domain.FieldCategory] = string(r.Category)
	s.drafts[domain.FieldSteps] = r.Steps

	s.tags = s.tags[:0]
	for _, t := range r.Tags {
		s.tags = append(s.tags, tagSlot{text: t, tag: t})
	}
	s.tags = append(s.tags, tagSlot{})

	s.rows = s.rows[:0]
	for _, ing := range r.Ingredients {
		s.rows = append(s.rows, newRow(ing))
	}

	if r.Title == "" {
		s.state = TitleSuspended
	} else {
		s.state = Editable
	}
	s.recompute()
}

// refreshKnownTags reloads the tag suggestions. A failure keeps the
// previous list.
func (s *Session) refreshKnownTags(ctx context.Context) {
	var tags []string
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		tags, err = s.store.LoadTags(ctx)
		return err
	})
	if err != nil {
		s.log.Warn("refreshing known tags: %v", err)
		return
	}
	s.knownTags = tags
}

// State returns the state of the current recipe.
func (s *Session) State() EditState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Index returns the position of the current recipe.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Recipes returns copies of every recipe in the collection.
func (s *Session) Recipes() []*domain.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Recipe, len(s.recipes))
	for i, r := range s.recipes {
		out[i] = r.Clone()
	}
	return out
}

// Current returns a copy of the committed current recipe.
func (s *Session) Current() *domain.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current().Clone()
}

// KnownTags returns the distinct tags across all stored recipes.
func (s *Session) KnownTags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.knownTags...)
}
