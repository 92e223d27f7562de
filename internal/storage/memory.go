package storage

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/hammamikhairi/larder/internal/domain"
	"github.com/hammamikhairi/larder/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.RecipeStore = (*MemoryStore)(nil)
	_ domain.PantryStore = (*MemoryStore)(nil)
)

// MemoryStore is an in-memory gateway with the same key rules as Store:
// duplicate titles, tags and ingredient names are rejected with
// ErrDuplicateKey, child rows need an existing recipe, and deleting a
// recipe drops its children. Safe for concurrent access.
type MemoryStore struct {
	mu       sync.RWMutex
	recipes  map[string]*domain.Recipe
	products []domain.Product
	log      *logger.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		recipes: make(map[string]*domain.Recipe),
		log:     log,
	}
}

// LoadRecipes returns copies of all recipes ordered by title.
func (s *MemoryStore) LoadRecipes(ctx context.Context) ([]*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	s.log.Debug("loaded %d recipes", len(out))
	return out, nil
}

// LoadTags returns the distinct tags across all recipes, sorted.
func (s *MemoryStore) LoadTags(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, r := range s.recipes {
		for _, t := range r.Tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// InsertRecipe stores a copy of the recipe and its children.
func (s *MemoryStore) InsertRecipe(ctx context.Context, r *domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[r.Title]; ok {
		return fmt.Errorf("insert recipe %q: %w", r.Title, domain.ErrDuplicateKey)
	}
	s.recipes[r.Title] = r.Clone()
	s.log.Debug("inserted recipe %q", r.Title)
	return nil
}

// DeleteRecipe removes a recipe and its children.
func (s *MemoryStore) DeleteRecipe(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.recipes, title)
	s.log.Debug("deleted recipe %q", title)
	return nil
}

// UpdateRecipeField writes one scalar field of a stored recipe.
func (s *MemoryStore) UpdateRecipeField(ctx context.Context, title string, field domain.Field, value any) error {
	if _, _, err := fieldColumn(field, value); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[title]
	if !ok {
		// Like an UPDATE matching no rows.
		return nil
	}
	switch field {
	case domain.FieldDuration:
		r.Duration = value.(float64)
	case domain.FieldUnit:
		r.Unit = value.(domain.DurationUnit)
	case domain.FieldPortions:
		r.Portions = value.(int)
	case domain.FieldCategory:
		r.Category = value.(domain.Category)
	case domain.FieldSteps:
		r.Steps = value.(string)
	}
	return nil
}

// InsertTag appends a tag to a stored recipe.
func (s *MemoryStore) InsertTag(ctx context.Context, title, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.parent(title)
	if err != nil {
		return fmt.Errorf("insert tag %q: %w", tag, err)
	}
	if r.HasTag(tag) {
		return fmt.Errorf("insert tag %q on %q: %w", tag, title, domain.ErrDuplicateKey)
	}
	r.Tags = append(r.Tags, tag)
	return nil
}

// DeleteTag removes a tag from a stored recipe.
func (s *MemoryStore) DeleteTag(ctx context.Context, title, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.recipes[title]; ok {
		r.Tags = slices.DeleteFunc(r.Tags, func(t string) bool { return t == tag })
	}
	return nil
}

// InsertIngredient appends an ingredient to a stored recipe.
func (s *MemoryStore) InsertIngredient(ctx context.Context, title string, ing domain.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.parent(title)
	if err != nil {
		return fmt.Errorf("insert ingredient %q: %w", ing.Name, err)
	}
	if r.IngredientIndex(ing.Name) >= 0 {
		return fmt.Errorf("insert ingredient %q on %q: %w", ing.Name, title, domain.ErrDuplicateKey)
	}
	r.Ingredients = append(r.Ingredients, ing)
	return nil
}

// UpdateIngredient rewrites the ingredient with the same name.
func (s *MemoryStore) UpdateIngredient(ctx context.Context, title string, ing domain.Ingredient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.recipes[title]; ok {
		if i := r.IngredientIndex(ing.Name); i >= 0 {
			r.Ingredients[i] = ing
		}
	}
	return nil
}

// DeleteIngredient removes an ingredient from a stored recipe.
func (s *MemoryStore) DeleteIngredient(ctx context.Context, title, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.recipes[title]; ok {
		r.Ingredients = slices.DeleteFunc(r.Ingredients, func(i domain.Ingredient) bool { return i.Name == name })
	}
	return nil
}

// parent returns the stored recipe for a child row, failing the way a
// foreign key would. Callers hold the lock.
func (s *MemoryStore) parent(title string) (*domain.Recipe, error) {
	r, ok := s.recipes[title]
	if !ok {
		return nil, fmt.Errorf("recipe %q does not exist: %w", title, domain.ErrStorage)
	}
	return r, nil
}

// InsertProduct adds a pantry product.
func (s *MemoryStore) InsertProduct(ctx context.Context, p domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, q := range s.products {
		if q.Name == p.Name && sameDay(q.ExpiresOn, p.ExpiresOn) {
			return fmt.Errorf("insert product %q: %w", p.Name, domain.ErrDuplicateKey)
		}
	}
	s.products = append(s.products, p)
	return nil
}

// DeleteProduct removes a pantry product.
func (s *MemoryStore) DeleteProduct(ctx context.Context, name string, expiresOn time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.products, func(p domain.Product) bool {
		return p.Name == name && sameDay(p.ExpiresOn, expiresOn)
	})
	if i < 0 {
		return fmt.Errorf("product %q expiring %s: %w", name, expiresOn.Format(domain.DateLayout), domain.ErrNotFound)
	}
	s.products = slices.Delete(s.products, i, i+1)
	return nil
}

// ListProducts returns the pantry ordered by expiration date.
func (s *MemoryStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Clone(s.products)
	sort.SliceStable(out, func(i, j int) bool {
		if !sameDay(out[i].ExpiresOn, out[j].ExpiresOn) {
			return out[i].ExpiresOn.Before(out[j].ExpiresOn)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// AvailableProducts returns the distinct names of unexpired products.
func (s *MemoryStore) AvailableProducts(ctx context.Context, asOf time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, p := range s.products {
		if p.Expired(asOf) || seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		out = append(out, p.Name)
	}
	sort.Strings(out)
	return out, nil
}

func sameDay(a, b time.Time) bool {
	return a.Format(domain.DateLayout) == b.Format(domain.DateLayout)
}
