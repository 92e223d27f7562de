package domain

import (
	"context"
	"time"
)

// RecipeStore is the persistence gateway for recipes and their child rows.
// Implementations can be SQL-backed or in-memory. Unique-constraint
// violations are reported as ErrDuplicateKey, every other failure as
// ErrStorage.
type RecipeStore interface {
	LoadRecipes(ctx context.Context) ([]*Recipe, error)
	LoadTags(ctx context.Context) ([]string, error)

	InsertRecipe(ctx context.Context, recipe *Recipe) error
	DeleteRecipe(ctx context.Context, title string) error
	UpdateRecipeField(ctx context.Context, title string, field Field, value any) error

	InsertTag(ctx context.Context, title, tag string) error
	DeleteTag(ctx context.Context, title, tag string) error

	InsertIngredient(ctx context.Context, title string, ing Ingredient) error
	UpdateIngredient(ctx context.Context, title string, ing Ingredient) error
	DeleteIngredient(ctx context.Context, title, name string) error
}

// PantrySource provides the names of products that are still usable.
type PantrySource interface {
	AvailableProducts(ctx context.Context, asOf time.Time) ([]string, error)
}

// PantryStore persists pantry products.
type PantryStore interface {
	PantrySource
	InsertProduct(ctx context.Context, p Product) error
	DeleteProduct(ctx context.Context, name string, expiresOn time.Time) error
	ListProducts(ctx context.Context) ([]Product, error)
}

// Notifier delivers messages to the user. Notify is used for validation
// problems, NotifyUrgent for storage failures.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
