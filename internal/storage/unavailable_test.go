package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hammamikhairi/larder/internal/domain"
)

func TestUnavailableFailsEveryCall(t *testing.T) {
	cause := errors.New("unable to open database file")
	var g gateway = NewUnavailable(cause)
	ctx := context.Background()

	_, err := g.LoadRecipes(ctx)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, cause)

	_, err = g.LoadTags(ctx)
	assert.ErrorIs(t, err, domain.ErrStorage)
	_, err = g.ListProducts(ctx)
	assert.ErrorIs(t, err, domain.ErrStorage)
	_, err = g.AvailableProducts(ctx, day("2026-01-01"))
	assert.ErrorIs(t, err, domain.ErrStorage)

	for name, call := range map[string]func() error{
		"InsertRecipe":      func() error { return g.InsertRecipe(ctx, soup()) },
		"DeleteRecipe":      func() error { return g.DeleteRecipe(ctx, "Soup") },
		"UpdateRecipeField": func() error { return g.UpdateRecipeField(ctx, "Soup", domain.FieldSteps, "Stir.") },
		"InsertTag":         func() error { return g.InsertTag(ctx, "Soup", "winter") },
		"DeleteTag":         func() error { return g.DeleteTag(ctx, "Soup", "winter") },
		"InsertIngredient":  func() error { return g.InsertIngredient(ctx, "Soup", domain.Ingredient{Name: "Salt"}) },
		"UpdateIngredient":  func() error { return g.UpdateIngredient(ctx, "Soup", domain.Ingredient{Name: "Salt"}) },
		"DeleteIngredient":  func() error { return g.DeleteIngredient(ctx, "Soup", "Salt") },
		"InsertProduct":     func() error { return g.InsertProduct(ctx, domain.Product{Name: "Milk"}) },
		"DeleteProduct":     func() error { return g.DeleteProduct(ctx, "Milk", day("2026-01-01")) },
	} {
		err := call()
		assert.ErrorIs(t, err, domain.ErrStorage, name)
		assert.False(t, errors.Is(err, domain.ErrDuplicateKey), name)
	}
}
