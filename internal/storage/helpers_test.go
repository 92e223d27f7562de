package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/larder/internal/domain"
	"github.com/hammamikhairi/larder/internal/logger"
)

type gateway interface {
	domain.RecipeStore
	domain.PantryStore
}

func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(DriverSQLite, path, logger.New(logger.LevelOff, nil))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func soup() *domain.Recipe {
	return &domain.Recipe{
		Title:    "Soup",
		Duration: 40,
		Unit:     domain.UnitMinutes,
		Portions: 4,
		Category: domain.CategoryFirstCourse,
		Steps:    "Chop. Simmer.",
		Ingredients: []domain.Ingredient{
			{Name: "Salt", Quantity: 1, Unit: "spoons"},
			{Name: "Carrot", Quantity: 300, Unit: "g"},
		},
		Tags: []string{"vegan", "winter"},
	}
}

func day(s string) time.Time {
	t, err := time.ParseInLocation(domain.DateLayout, s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

// runGatewayContract checks the key rules both implementations share.
func runGatewayContract(t *testing.T, newStore func(t *testing.T) gateway) {
	ctx := context.Background()

	t.Run("insert and load round trip", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.InsertRecipe(ctx, soup()))

		got, err := s.LoadRecipes(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].Equal(soup()), "loaded %+v", got[0])
	})

	t.Run("duplicate title", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.InsertRecipe(ctx, soup()))
		err := s.InsertRecipe(ctx, soup())
		assert.ErrorIs(t, err, domain.ErrDuplicateKey)
	})

	t.Run("delete cascades children", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.InsertRecipe(ctx, soup()))
		require.NoError(t, s.DeleteRecipe(ctx, "Soup"))

		recipes, err := s.LoadRecipes(ctx)
		require.NoError(t, err)
		assert.Empty(t, recipes)
		tags, err := s.LoadTags(ctx)
		require.NoError(t, err)
		assert.Empty(t, tags)

		// Re-inserting under the same title starts clean.
		r := soup()
		r.Ingredients = nil
		r.Tags = nil
		require.NoError(t, s.InsertRecipe(ctx, r))
		recipes, err = s.LoadRecipes(ctx)
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Empty(t, recipes[0].Ingredients)
	})

	t.Run("update fields", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.InsertRecipe(ctx, soup()))
		require.NoError(t, s.UpdateRecipeField(ctx, "Soup", domain.FieldDuration, 1.5))
		require.NoError(t, s.UpdateRecipeField(ctx, "Soup", domain.FieldUnit, domain.UnitHours))
		require.NoError(t, s.UpdateRecipeField(ctx, "Soup", domain.FieldPortions, 2))
		require.NoError(t, s.UpdateRecipeField(ctx, "Soup", domain.FieldCategory, domain.CategoryDessert))
		require.NoError(t, s.UpdateRecipeField(ctx, "Soup", domain.FieldSteps, "Stir."))

		got, err := s.LoadRecipes(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1.5, got[0].Duration)
		assert.Equal(t, domain.UnitHours, got[0].Unit)
		assert.Equal(t, 2, got[0].Portions)
		assert.Equal(t, domain.CategoryDessert, got[0].Category)
		assert.Equal(t, "Stir.", got[0].Steps)
	})

	t.Run("update rejects title and bad types", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.InsertRecipe(ctx, soup()))
		assert.ErrorIs(t, s.UpdateRecipeField(ctx, "Soup", domain.FieldTitle, "Stew"), domain.ErrValidation)
		assert.ErrorIs(t, s.UpdateRecipeField(ctx, "Soup", domain.FieldPortions, "4"), domain.ErrValidation)
	})

	t.Run("tags keep insertion order", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.InsertRecipe(ctx, soup()))
		require.NoError(t, s.DeleteTag(ctx, "Soup", "vegan"))
		require.NoError(t, s.InsertTag(ctx, "Soup", "quick"))
		require.NoError(t, s.InsertTag(ctx, "Soup", "cheap"))
		assert.ErrorIs(t, s.InsertTag(ctx, "Soup", "quick"), domain.ErrDuplicateKey)

		got, err := s.LoadRecipes(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"winter", "quick", "cheap"}, got[0].Tags)

		known, err := s.LoadTags(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"cheap", "quick", "winter"}, known)
	})

	t.Run("child rows need a recipe", func(t *testing.T) {
		s := newStore(t)
		err := s.InsertTag(ctx, "Ghost", "spooky")
		assert.ErrorIs(t, err, domain.ErrStorage)
		assert.NotErrorIs(t, err, domain.ErrDuplicateKey)
	})

	t.Run("ingredients", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.InsertRecipe(ctx, soup()))
		require.NoError(t, s.UpdateIngredient(ctx, "Soup", domain.Ingredient{Name: "Salt", Quantity: 2, Unit: "g"}))
		require.NoError(t, s.InsertIngredient(ctx, "Soup", domain.Ingredient{Name: "Leek", Quantity: 1}))
		assert.ErrorIs(t,
			s.InsertIngredient(ctx, "Soup", domain.Ingredient{Name: "Leek", Quantity: 5}),
			domain.ErrDuplicateKey)
		require.NoError(t, s.DeleteIngredient(ctx, "Soup", "Carrot"))

		got, err := s.LoadRecipes(ctx)
		require.NoError(t, err)
		assert.Equal(t, []domain.Ingredient{
			{Name: "Salt", Quantity: 2, Unit: "g"},
			{Name: "Leek", Quantity: 1},
		}, got[0].Ingredients)
	})

	t.Run("pantry", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.InsertProduct(ctx, domain.Product{Name: "Milk", ExpiresOn: day("2026-10-25"), Quantity: 1}))
		require.NoError(t, s.InsertProduct(ctx, domain.Product{Name: "Eggs", ExpiresOn: day("2026-10-19"), Quantity: 6}))
		require.NoError(t, s.InsertProduct(ctx, domain.Product{Name: "Milk", ExpiresOn: day("2026-11-02"), Quantity: 1}))
		assert.ErrorIs(t,
			s.InsertProduct(ctx, domain.Product{Name: "Milk", ExpiresOn: day("2026-10-25")}),
			domain.ErrDuplicateKey)

		names, err := s.AvailableProducts(ctx, day("2026-10-19").Add(9*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, []string{"Milk"}, names)

		all, err := s.ListProducts(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "Eggs", all[0].Name)

		require.NoError(t, s.DeleteProduct(ctx, "Eggs", day("2026-10-19")))
		assert.ErrorIs(t, s.DeleteProduct(ctx, "Eggs", day("2026-10-19")), domain.ErrNotFound)
	})
}
