package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hammamikhairi/larder/internal/domain"
)

// LoadRecipes returns every recipe ordered by title, with ingredients and
// tags in insertion order.
func (s *Store) LoadRecipes(ctx context.Context) ([]*domain.Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, duration, unit, portions, category, steps FROM recipe ORDER BY title`)
	if err != nil {
		return nil, classify("load recipes", err)
	}
	defer rows.Close()

	var recipes []*domain.Recipe
	byTitle := make(map[string]*domain.Recipe)
	for rows.Next() {
		r := &domain.Recipe{}
		var unit int
		var category string
		if err := rows.Scan(&r.Title, &r.Duration, &unit, &r.Portions, &category, &r.Steps); err != nil {
			return nil, classify("scan recipe", err)
		}
		r.Unit = domain.DurationUnit(unit)
		r.Category = domain.Category(category)
		recipes = append(recipes, r)
		byTitle[r.Title] = r
	}
	if err := rows.Err(); err != nil {
		return nil, classify("load recipes", err)
	}

	if err := s.loadIngredients(ctx, byTitle); err != nil {
		return nil, err
	}
	if err := s.loadTags(ctx, byTitle); err != nil {
		return nil, err
	}

	s.log.Debug("loaded %d recipes", len(recipes))
	return recipes, nil
}

func (s *Store) loadIngredients(ctx context.Context, byTitle map[string]*domain.Recipe) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, ingredient, quantity, unit_of_measurement FROM consist ORDER BY title, seq`)
	if err != nil {
		return classify("load ingredients", err)
	}
	defer rows.Close()

	for rows.Next() {
		var title string
		var ing domain.Ingredient
		if err := rows.Scan(&title, &ing.Name, &ing.Quantity, &ing.Unit); err != nil {
			return classify("scan ingredient", err)
		}
		if r, ok := byTitle[title]; ok {
			r.Ingredients = append(r.Ingredients, ing)
		}
	}
	return classify("load ingredients", rows.Err())
}

func (s *Store) loadTags(ctx context.Context, byTitle map[string]*domain.Recipe) error {
	rows, err := s.db.QueryContext(ctx, `SELECT title, tag FROM tag ORDER BY title, seq`)
	if err != nil {
		return classify("load tags", err)
	}
	defer rows.Close()

	for rows.Next() {
		var title, tag string
		if err := rows.Scan(&title, &tag); err != nil {
			return classify("scan tag", err)
		}
		if r, ok := byTitle[title]; ok {
			r.Tags = append(r.Tags, tag)
		}
	}
	return classify("load tags", rows.Err())
}

// LoadTags returns the distinct tags across all recipes, sorted.
func (s *Store) LoadTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT tag FROM tag ORDER BY tag`)
	if err != nil {
		return nil, classify("load known tags", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, classify("scan known tag", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("load known tags", err)
	}
	return tags, nil
}

// InsertRecipe inserts the recipe row and all of its ingredient and tag
// rows in one transaction.
func (s *Store) InsertRecipe(ctx context.Context, r *domain.Recipe) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO recipe (title, duration, unit, portions, category, steps) VALUES (?, ?, ?, ?, ?, ?)`,
			r.Title, r.Duration, int(r.Unit), r.Portions, string(r.Category), r.Steps)
		if err != nil {
			return err
		}
		for i, ing := range r.Ingredients {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO consist (title, ingredient, quantity, unit_of_measurement, seq) VALUES (?, ?, ?, ?, ?)`,
				r.Title, ing.Name, ing.Quantity, ing.Unit, i+1)
			if err != nil {
				return err
			}
		}
		for i, tag := range r.Tags {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO tag (title, tag, seq) VALUES (?, ?, ?)`, r.Title, tag, i+1)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return classify(fmt.Sprintf("insert recipe %q", r.Title), err)
	}
	s.log.Debug("inserted recipe %q (%d ingredients, %d tags)", r.Title, len(r.Ingredients), len(r.Tags))
	return nil
}

// DeleteRecipe removes the recipe and its child rows. Deleting a title
// that does not exist is not an error.
func (s *Store) DeleteRecipe(ctx context.Context, title string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, q := range []string{
			`DELETE FROM consist WHERE title = ?`,
			`DELETE FROM tag WHERE title = ?`,
			`DELETE FROM recipe WHERE title = ?`,
		} {
			if _, err := tx.ExecContext(ctx, q, title); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return classify(fmt.Sprintf("delete recipe %q", title), err)
	}
	s.log.Debug("deleted recipe %q", title)
	return nil
}

// UpdateRecipeField writes a single scalar column. The title is the key
// and cannot be updated this way.
func (s *Store) UpdateRecipeField(ctx context.Context, title string, field domain.Field, value any) error {
	column, arg, err := fieldColumn(field, value)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE recipe SET %s = ? WHERE title = ?`, column), arg, title)
	if err != nil {
		return classify(fmt.Sprintf("update %s of %q", field, title), err)
	}
	s.log.Debug("updated %s of %q", field, title)
	return nil
}

// fieldColumn maps a field and its typed value to a column and a driver
// argument.
func fieldColumn(field domain.Field, value any) (string, any, error) {
	bad := func() (string, any, error) {
		return "", nil, &domain.ValidationError{
			Field:  field.String(),
			Input:  fmt.Sprint(value),
			Reason: fmt.Sprintf("has unexpected type %T", value),
		}
	}
	switch field {
	case domain.FieldDuration:
		if v, ok := value.(float64); ok {
			return "duration", v, nil
		}
		return bad()
	case domain.FieldUnit:
		if v, ok := value.(domain.DurationUnit); ok {
			return "unit", int(v), nil
		}
		return bad()
	case domain.FieldPortions:
		if v, ok := value.(int); ok {
			return "portions", v, nil
		}
		return bad()
	case domain.FieldCategory:
		if v, ok := value.(domain.Category); ok {
			return "category", string(v), nil
		}
		return bad()
	case domain.FieldSteps:
		if v, ok := value.(string); ok {
			return "steps", v, nil
		}
		return bad()
	default:
		return "", nil, &domain.ValidationError{
			Field:  field.String(),
			Input:  fmt.Sprint(value),
			Reason: "is not an updatable column",
		}
	}
}

// InsertTag appends a tag row to the recipe.
func (s *Store) InsertTag(ctx context.Context, title, tag string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tag (title, tag, seq) SELECT ?, ?, COALESCE(MAX(seq), 0) + 1 FROM tag WHERE title = ?`,
		title, tag, title)
	if err != nil {
		return classify(fmt.Sprintf("insert tag %q on %q", tag, title), err)
	}
	return nil
}

// DeleteTag removes a tag row. Missing rows are ignored.
func (s *Store) DeleteTag(ctx context.Context, title, tag string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tag WHERE title = ? AND tag = ?`, title, tag)
	if err != nil {
		return classify(fmt.Sprintf("delete tag %q on %q", tag, title), err)
	}
	return nil
}

// InsertIngredient appends an ingredient row to the recipe.
func (s *Store) InsertIngredient(ctx context.Context, title string, ing domain.Ingredient) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO consist (title, ingredient, quantity, unit_of_measurement, seq)
		 SELECT ?, ?, ?, ?, COALESCE(MAX(seq), 0) + 1 FROM consist WHERE title = ?`,
		title, ing.Name, ing.Quantity, ing.Unit, title)
	if err != nil {
		return classify(fmt.Sprintf("insert ingredient %q on %q", ing.Name, title), err)
	}
	return nil
}

// UpdateIngredient rewrites the quantity and unit of the ingredient with
// the same name.
func (s *Store) UpdateIngredient(ctx context.Context, title string, ing domain.Ingredient) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE consist SET quantity = ?, unit_of_measurement = ? WHERE title = ? AND ingredient = ?`,
		ing.Quantity, ing.Unit, title, ing.Name)
	if err != nil {
		return classify(fmt.Sprintf("update ingredient %q on %q", ing.Name, title), err)
	}
	return nil
}

// DeleteIngredient removes an ingredient row. Missing rows are ignored.
func (s *Store) DeleteIngredient(ctx context.Context, title, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM consist WHERE title = ? AND ingredient = ?`, title, name)
	if err != nil {
		return classify(fmt.Sprintf("delete ingredient %q on %q", name, title), err)
	}
	return nil
}
