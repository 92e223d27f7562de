package recipe

import (
	"strings"

	"github.com/hammamikhairi/larder/internal/domain"
)

// Samples returns a fresh copy of the built-in sample recipes, used to
// seed an empty recipe book.
func Samples() []*domain.Recipe {
	return []*domain.Recipe{
		chickenAlfredo(),
		vegetableStirFry(),
		tiramisu(),
	}
}

// Search returns the recipes whose title, category or tags contain the
// query, case-insensitively.
func Search(recipes []*domain.Recipe, query string) []*domain.Recipe {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return recipes
	}
	var out []*domain.Recipe
	for _, r := range recipes {
		if strings.Contains(strings.ToLower(r.Title), q) ||
			strings.Contains(string(r.Category), q) {
			out = append(out, r)
			continue
		}
		for _, tag := range r.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func chickenAlfredo() *domain.Recipe {
	return &domain.Recipe{
		Title:    "Chicken Alfredo",
		Duration: 35,
		Unit:     domain.UnitMinutes,
		Portions: 2,
		Category: domain.CategoryFirstCourse,
		Steps: "Boil salted water and cook the fettuccine until al dente.\n" +
			"Season the chicken and sear it 6 to 7 minutes per side, then slice.\n" +
			"Melt the butter, cook the garlic for 30 seconds, add the cream and simmer.\n" +
			"Stir in the parmesan off the heat, toss with the pasta and top with chicken.",
		Ingredients: []domain.Ingredient{
			{Name: "fettuccine", Quantity: 200, Unit: "g"},
			{Name: "chicken breast", Quantity: 300, Unit: "g"},
			{Name: "butter", Quantity: 2, Unit: "spoons"},
			{Name: "garlic", Quantity: 2, Unit: "cloves"},
			{Name: "heavy cream", Quantity: 240, Unit: "ml"},
			{Name: "parmesan", Quantity: 50, Unit: "g"},
		},
		Tags: []string{"pasta", "chicken", "comfort"},
	}
}

func vegetableStirFry() *domain.Recipe {
	return &domain.Recipe{
		Title:    "Vegetable Stir Fry",
		Duration: 20,
		Unit:     domain.UnitMinutes,
		Portions: 2,
		Category: domain.CategorySecondCourse,
		Steps: "Prep all vegetables before the pan goes on.\n" +
			"Mix soy sauce, sesame oil and cornstarch with 2 spoons of water.\n" +
			"Stir-fry broccoli and carrots for 2 minutes, then peppers and snap peas.\n" +
			"Add garlic and ginger, pour the sauce and serve over rice.",
		Ingredients: []domain.Ingredient{
			{Name: "broccoli", Quantity: 200, Unit: "g"},
			{Name: "carrot", Quantity: 1, Unit: "pcs"},
			{Name: "bell pepper", Quantity: 1, Unit: "pcs"},
			{Name: "soy sauce", Quantity: 3, Unit: "spoons"},
			{Name: "sesame oil", Quantity: 1, Unit: "spoons"},
			{Name: "rice", Quantity: 150, Unit: "g"},
		},
		Tags: []string{"vegan", "quick"},
	}
}

func tiramisu() *domain.Recipe {
	return &domain.Recipe{
		Title:    "Tiramisu",
		Duration: 5,
		Unit:     domain.UnitHours,
		Portions: 6,
		Category: domain.CategoryDessert,
		Steps: "Whisk yolks and sugar, fold in the mascarpone.\n" +
			"Dip the ladyfingers in coffee and layer with the cream.\n" +
			"Chill at least 4 hours and dust with cocoa.",
		Ingredients: []domain.Ingredient{
			{Name: "mascarpone", Quantity: 500, Unit: "g"},
			{Name: "eggs", Quantity: 4, Unit: "pcs"},
			{Name: "sugar", Quantity: 100, Unit: "g"},
			{Name: "ladyfingers", Quantity: 300, Unit: "g"},
			{Name: "espresso", Quantity: 300, Unit: "ml"},
		},
		Tags: []string{"italian", "no-bake"},
	}
}
