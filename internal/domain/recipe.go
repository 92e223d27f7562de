// Package domain defines the core types and interfaces of the recipe book.
// All other packages depend on domain; domain depends on nothing.
package domain

import (
	"slices"
	"strconv"
	"strings"
)

// Recipe is a recipe as held in memory. The title is the natural key used
// for every child row (ingredients, tags).
type Recipe struct {
	Title       string
	Duration    float64
	Unit        DurationUnit
	Portions    int
	Category    Category
	Steps       string
	Ingredients []Ingredient // creation order
	Tags        []string     // slot order
}

// NewRecipe returns the blank recipe used by the create flow.
func NewRecipe() *Recipe {
	return &Recipe{
		Unit:     UnitMinutes,
		Category: CategoryFirstCourse,
	}
}

// Clone returns a deep copy of r.
func (r *Recipe) Clone() *Recipe {
	c := *r
	c.Ingredients = slices.Clone(r.Ingredients)
	c.Tags = slices.Clone(r.Tags)
	return &c
}

// Equal reports whether two recipes hold the same values.
func (r *Recipe) Equal(o *Recipe) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.Title == o.Title &&
		r.Duration == o.Duration &&
		r.Unit == o.Unit &&
		r.Portions == o.Portions &&
		r.Category == o.Category &&
		r.Steps == o.Steps &&
		slices.Equal(r.Ingredients, o.Ingredients) &&
		slices.Equal(r.Tags, o.Tags)
}

// IngredientIndex returns the position of the ingredient with the given
// name, or -1.
func (r *Recipe) IngredientIndex(name string) int {
	return slices.IndexFunc(r.Ingredients, func(i Ingredient) bool { return i.Name == name })
}

// HasTag reports whether tag is already in the tag list.
func (r *Recipe) HasTag(tag string) bool {
	return slices.Contains(r.Tags, tag)
}

// Ingredient is a recipe-scoped ingredient. Two ingredients are equal iff
// all three fields match, so the struct is comparable with ==.
type Ingredient struct {
	Name     string
	Quantity float64
	Unit     string // "g", "kg", "ml", "l", "spoons" or free text
}

// UnitPresets are the suggested units of measurement for ingredients.
var UnitPresets = []string{"g", "kg", "ml", "l", "spoons"}

// DurationUnit is the unit of a recipe's duration.
type DurationUnit int

const (
	UnitMinutes DurationUnit = iota
	UnitHours
)

// String returns the display name of the unit.
func (u DurationUnit) String() string {
	switch u {
	case UnitMinutes:
		return "minutes"
	case UnitHours:
		return "hours"
	default:
		return "unknown"
	}
}

// Valid reports whether u is one of the known units.
func (u DurationUnit) Valid() bool {
	return u == UnitMinutes || u == UnitHours
}

// ParseDurationUnit converts "minutes"/"hours" (or "min"/"h") to a unit.
func ParseDurationUnit(s string) (DurationUnit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minutes", "minute", "min", "m":
		return UnitMinutes, true
	case "hours", "hour", "h":
		return UnitHours, true
	default:
		return UnitMinutes, false
	}
}

// Category is one of the fixed recipe categories.
type Category string

const (
	CategoryFirstCourse  Category = "first course"
	CategorySecondCourse Category = "second course"
	CategoryDessert      Category = "dessert"
	CategorySideDish     Category = "side dish"
)

// Categories lists the categories in display order.
var Categories = []Category{
	CategoryFirstCourse,
	CategorySecondCourse,
	CategoryDessert,
	CategorySideDish,
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// FormatNumber renders a float the way the editor shows it in a field.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
