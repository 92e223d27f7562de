// Package recipe converts recipe collections to and from their portable
// text forms (JSON and YAML) and provides a few sample recipes.
package recipe

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/larder/internal/domain"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
	}
}

// FormatFromPath guesses the format from a file extension, defaulting to
// JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// record is the exported shape of one recipe.
type record struct {
	Title       string             `json:"title" yaml:"title"`
	Duration    float64            `json:"duration" yaml:"duration"`
	Unit        string             `json:"unit" yaml:"unit"`
	Portions    int                `json:"portions" yaml:"portions"`
	Category    string             `json:"category" yaml:"category"`
	Steps       string             `json:"steps" yaml:"steps"`
	Ingredients []ingredientRecord `json:"ingredients" yaml:"ingredients"`
	Tags        []string           `json:"tags" yaml:"tags"`
}

type ingredientRecord struct {
	Name     string  `json:"name" yaml:"name"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
	Unit     string  `json:"unit" yaml:"unit"`
}

// Encode writes the recipes as one record each, in order.
func Encode(w io.Writer, format Format, recipes []*domain.Recipe) error {
	records := make([]record, 0, len(recipes))
	for _, r := range recipes {
		records = append(records, toRecord(r))
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("encode: unknown format %q", format)
	}
}

// Decode reads recipes written by Encode. Titles, tags, ingredient names
// and units are trimmed. A malformed record fails the whole batch with a
// validation error.
func Decode(r io.Reader, format Format) ([]*domain.Recipe, error) {
	var records []record
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			return nil, fmt.Errorf("decoding json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&records); err != nil && err != io.EOF {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("decode: unknown format %q", format)
	}

	out := make([]*domain.Recipe, 0, len(records))
	for i, rec := range records {
		recipe, err := fromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		out = append(out, recipe)
	}
	return out, nil
}

func toRecord(r *domain.Recipe) record {
	rec := record{
		Title:       r.Title,
		Duration:    r.Duration,
		Unit:        r.Unit.String(),
		Portions:    r.Portions,
		Category:    string(r.Category),
		Steps:       r.Steps,
		Ingredients: make([]ingredientRecord, 0, len(r.Ingredients)),
		Tags:        append([]string{}, r.Tags...),
	}
	for _, ing := range r.Ingredients {
		rec.Ingredients = append(rec.Ingredients, ingredientRecord{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
		})
	}
	return rec
}

func fromRecord(rec record) (*domain.Recipe, error) {
	invalid := func(field, input, reason string) error {
		return &domain.ValidationError{Field: field, Input: input, Reason: reason}
	}

	unit, ok := domain.ParseDurationUnit(rec.Unit)
	if !ok {
		return nil, invalid("unit", rec.Unit, "is not minutes or hours")
	}
	category := domain.Category(strings.ToLower(strings.TrimSpace(rec.Category)))
	if !category.Valid() {
		return nil, invalid("category", rec.Category, "is not a known category")
	}
	if rec.Duration < 0 || math.IsNaN(rec.Duration) || math.IsInf(rec.Duration, 0) {
		return nil, invalid("duration", domain.FormatNumber(rec.Duration), "is not a non-negative number")
	}
	if rec.Portions < 0 {
		return nil, invalid("portions", fmt.Sprint(rec.Portions), "is negative")
	}

	r := &domain.Recipe{
		Title:    strings.TrimSpace(rec.Title),
		Duration: rec.Duration,
		Unit:     unit,
		Portions: rec.Portions,
		Category: category,
		Steps:    rec.Steps,
	}
	for _, ing := range rec.Ingredients {
		name := strings.TrimSpace(ing.Name)
		if name == "" || r.IngredientIndex(name) >= 0 {
			continue
		}
		if ing.Quantity < 0 {
			return nil, invalid("quantity", domain.FormatNumber(ing.Quantity), "is negative")
		}
		r.Ingredients = append(r.Ingredients, domain.Ingredient{
			Name:     name,
			Quantity: ing.Quantity,
			Unit:     strings.TrimSpace(ing.Unit),
		})
	}
	for _, tag := range rec.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || r.HasTag(tag) {
			continue
		}
		r.Tags = append(r.Tags, tag)
	}
	return r, nil
}
