package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/larder/internal/domain"
)

// Compile-time interface checks.
var (
	_ domain.RecipeStore = (*Unavailable)(nil)
	_ domain.PantryStore = (*Unavailable)(nil)
)

// Unavailable stands in for a database that could not be opened. Every
// call fails with ErrStorage wrapping the cause, which puts the editor in
// its degraded mode: an empty collection and nothing saved.
type Unavailable struct {
	cause error
}

// NewUnavailable returns a gateway that always fails with cause.
func NewUnavailable(cause error) *Unavailable {
	return &Unavailable{cause: cause}
}

func (u *Unavailable) fail(op string) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, u.cause)
}

func (u *Unavailable) LoadRecipes(ctx context.Context) ([]*domain.Recipe, error) {
	return nil, u.fail("load recipes")
}

func (u *Unavailable) LoadTags(ctx context.Context) ([]string, error) {
	return nil, u.fail("load tags")
}

func (u *Unavailable) InsertRecipe(ctx context.Context, r *domain.Recipe) error {
	return u.fail("insert recipe")
}

func (u *Unavailable) DeleteRecipe(ctx context.Context, title string) error {
	return u.fail("delete recipe")
}

func (u *Unavailable) UpdateRecipeField(ctx context.Context, title string, field domain.Field, value any) error {
	return u.fail("update " + field.String())
}

func (u *Unavailable) InsertTag(ctx context.Context, title, tag string) error {
	return u.fail("insert tag")
}

func (u *Unavailable) DeleteTag(ctx context.Context, title, tag string) error {
	return u.fail("delete tag")
}

func (u *Unavailable) InsertIngredient(ctx context.Context, title string, ing domain.Ingredient) error {
	return u.fail("insert ingredient")
}

func (u *Unavailable) UpdateIngredient(ctx context.Context, title string, ing domain.Ingredient) error {
	return u.fail("update ingredient")
}

func (u *Unavailable) DeleteIngredient(ctx context.Context, title, name string) error {
	return u.fail("delete ingredient")
}

func (u *Unavailable) InsertProduct(ctx context.Context, p domain.Product) error {
	return u.fail("insert product")
}

func (u *Unavailable) DeleteProduct(ctx context.Context, name string, expiresOn time.Time) error {
	return u.fail("delete product")
}

func (u *Unavailable) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return nil, u.fail("list products")
}

func (u *Unavailable) AvailableProducts(ctx context.Context, asOf time.Time) ([]string, error) {
	return nil, u.fail("available products")
}
