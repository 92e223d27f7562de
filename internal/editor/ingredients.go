package editor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/hammamikhairi/larder/internal/domain"
)

// IngredientPart is one of the three inputs of an ingredient row.
type IngredientPart int

const (
	PartName IngredientPart = iota
	PartQuantity
	PartUnit
)

func (p IngredientPart) String() string {
	switch p {
	case PartName:
		return "name"
	case PartQuantity:
		return "quantity"
	case PartUnit:
		return "unit"
	default:
		return "unknown"
	}
}

// ingredientRow is the draft state of one ingredient. committed is the
// name the row is stored under, empty until the row becomes active. Rows
// are matched to the recipe's ingredients by committed name, never by
// position.
type ingredientRow struct {
	id        string
	name      string
	quantity  string
	unit      string
	committed string
}

func newRow(ing domain.Ingredient) *ingredientRow {
	return &ingredientRow{
		id:        uuid.NewString(),
		name:      ing.Name,
		quantity:  domain.FormatNumber(ing.Quantity),
		unit:      ing.Unit,
		committed: ing.Name,
	}
}

func (r *ingredientRow) active() bool {
	return r.committed != ""
}

// frozen reports an active row whose name was cleared. Its other controls
// stay disabled until it gets a name again.
func (r *ingredientRow) frozen() bool {
	return r.active() && strings.TrimSpace(r.name) == ""
}

func (r *ingredientRow) controlsEnabled() bool {
	return r.active() && !r.frozen()
}

func (s *Session) row(id string) (*ingredientRow, error) {
	for _, r := range s.rows {
		if r.id == id {
			return r, nil
		}
	}
	return nil, fmt.Errorf("ingredient row %s: %w", id, domain.ErrNotFound)
}

// AddIngredient adds a blank ingredient row and returns its id. When the
// newest row has no name yet, that row is returned instead.
func (s *Session) AddIngredient() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == TitleSuspended {
		return "", domain.ErrTitleSuspended
	}
	if n := len(s.rows); n > 0 && !s.rows[n-1].active() {
		return s.rows[n-1].id, nil
	}
	row := newRow(domain.Ingredient{})
	s.rows = append(s.rows, row)
	return row.id, nil
}

// EditIngredient replaces the draft of one input of a row. Quantity and
// unit are only editable on an active, named row.
func (s *Session) EditIngredient(id string, part IngredientPart, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.row(id)
	if err != nil {
		return err
	}
	if s.state == TitleSuspended {
		return domain.ErrTitleSuspended
	}
	switch part {
	case PartName:
		row.name = text
	case PartQuantity:
		if !row.controlsEnabled() {
			return domain.ErrIngredientInactive
		}
		row.quantity = text
	case PartUnit:
		if !row.controlsEnabled() {
			return domain.ErrIngredientInactive
		}
		row.unit = text
	default:
		return fmt.Errorf("unknown ingredient part %d", part)
	}
	return nil
}

// CommitIngredient commits one input of a row.
func (s *Session) CommitIngredient(ctx context.Context, id string, part IngredientPart) error {
	return s.do(ctx, func() error {
		row, err := s.row(id)
		if err != nil {
			return err
		}
		switch part {
		case PartName:
			return s.commitIngredientName(ctx, row)
		case PartQuantity:
			return s.commitIngredientQuantity(ctx, row)
		case PartUnit:
			return s.commitIngredientUnit(ctx, row)
		default:
			return fmt.Errorf("unknown ingredient part %d", part)
		}
	})
}

// commitIngredientName activates, renames or freezes a row. A rename
// deletes the stored row and inserts it again under the new name, keeping
// quantity and unit.
func (s *Session) commitIngredientName(ctx context.Context, row *ingredientRow) error {
	name := strings.TrimSpace(row.name)
	if name == row.committed {
		return nil
	}
	if s.state == TitleSuspended {
		return domain.ErrTitleSuspended
	}
	if name == "" {
		// Freeze: the stored row stays until the row is renamed or deleted.
		s.log.Debug("ingredient %q frozen", row.committed)
		return nil
	}

	r := s.current()
	if r.IngredientIndex(name) >= 0 {
		row.name = row.committed
		return nil
	}

	wasActive := row.active()
	ing := domain.Ingredient{Name: name}
	if wasActive {
		if i := r.IngredientIndex(row.committed); i >= 0 {
			ing.Quantity = r.Ingredients[i].Quantity
			ing.Unit = r.Ingredients[i].Unit
		}
		old := row.committed
		err := s.call(ctx, func(ctx context.Context) error { return s.store.DeleteIngredient(ctx, r.Title, old) })
		if err != nil {
			return s.reportStoreError(fmt.Sprintf("rename ingredient %q", old), err)
		}
	} else if q, err := parseQuantity(row.quantity); err == nil {
		ing.Quantity = q
		ing.Unit = strings.TrimSpace(row.unit)
	}

	err := s.call(ctx, func(ctx context.Context) error { return s.store.InsertIngredient(ctx, r.Title, ing) })
	if err != nil && !errors.Is(err, domain.ErrDuplicateKey) {
		return s.reportStoreError(fmt.Sprintf("save ingredient %q", name), err)
	}

	if wasActive {
		old := row.committed
		r.Ingredients = slices.DeleteFunc(r.Ingredients, func(i domain.Ingredient) bool { return i.Name == old })
	}
	r.Ingredients = append(r.Ingredients, ing)
	row.committed = name
	if !wasActive {
		// The quantity and unit inputs open with what was stored.
		row.quantity = domain.FormatNumber(ing.Quantity)
		row.unit = ing.Unit
	}
	s.recompute()
	s.log.Debug("ingredient %q saved on %q", name, r.Title)
	return nil
}

func (s *Session) commitIngredientQuantity(ctx context.Context, row *ingredientRow) error {
	if !row.controlsEnabled() {
		return domain.ErrIngredientInactive
	}
	if s.state == TitleSuspended {
		return domain.ErrTitleSuspended
	}
	r := s.current()
	i := r.IngredientIndex(row.committed)

	q, err := parseQuantity(row.quantity)
	if err != nil {
		input := row.quantity
		if i >= 0 {
			row.quantity = domain.FormatNumber(r.Ingredients[i].Quantity)
		} else {
			row.quantity = "0"
		}
		s.inform("Invalid quantity for %s: %q is not a non-negative number", row.committed, input)
		return &domain.ValidationError{Field: "quantity", Input: input, Reason: "is not a non-negative number"}
	}

	ing := domain.Ingredient{Name: row.committed, Quantity: q, Unit: strings.TrimSpace(row.unit)}
	if i >= 0 {
		if r.Ingredients[i].Quantity == q {
			return nil
		}
		ing.Unit = r.Ingredients[i].Unit
	}
	return s.saveIngredient(ctx, r, i, ing)
}

func (s *Session) commitIngredientUnit(ctx context.Context, row *ingredientRow) error {
	if !row.controlsEnabled() {
		return domain.ErrIngredientInactive
	}
	if s.state == TitleSuspended {
		return domain.ErrTitleSuspended
	}
	r := s.current()
	i := r.IngredientIndex(row.committed)
	unit := strings.TrimSpace(row.unit)

	ing := domain.Ingredient{Name: row.committed, Unit: unit}
	if i >= 0 {
		if r.Ingredients[i].Unit == unit {
			return nil
		}
		ing.Quantity = r.Ingredients[i].Quantity
	} else if q, err := parseQuantity(row.quantity); err == nil {
		ing.Quantity = q
	}
	return s.saveIngredient(ctx, r, i, ing)
}

// saveIngredient updates the ingredient at index i in place, or inserts
// and appends it when it is not in the recipe.
func (s *Session) saveIngredient(ctx context.Context, r *domain.Recipe, i int, ing domain.Ingredient) error {
	var err error
	if i >= 0 {
		err = s.call(ctx, func(ctx context.Context) error { return s.store.UpdateIngredient(ctx, r.Title, ing) })
	} else {
		err = s.call(ctx, func(ctx context.Context) error { return s.store.InsertIngredient(ctx, r.Title, ing) })
		if errors.Is(err, domain.ErrDuplicateKey) {
			err = nil
		}
	}
	if err != nil {
		return s.reportStoreError(fmt.Sprintf("save ingredient %q", ing.Name), err)
	}
	if i >= 0 {
		r.Ingredients[i] = ing
	} else {
		r.Ingredients = append(r.Ingredients, ing)
	}
	return nil
}

// DeleteIngredient removes a row, its stored ingredient and the in-memory
// entry. Rows without a name cannot be deleted.
func (s *Session) DeleteIngredient(ctx context.Context, id string) error {
	return s.do(ctx, func() error {
		row, err := s.row(id)
		if err != nil {
			return err
		}
		if !row.controlsEnabled() {
			return domain.ErrIngredientInactive
		}
		if s.state == TitleSuspended {
			return domain.ErrTitleSuspended
		}
		r := s.current()
		name := row.committed
		err = s.call(ctx, func(ctx context.Context) error { return s.store.DeleteIngredient(ctx, r.Title, name) })
		if err != nil {
			return s.reportStoreError(fmt.Sprintf("delete ingredient %q", name), err)
		}
		r.Ingredients = slices.DeleteFunc(r.Ingredients, func(i domain.Ingredient) bool { return i.Name == name })
		s.rows = slices.DeleteFunc(s.rows, func(x *ingredientRow) bool { return x.id == id })
		s.recompute()
		s.log.Debug("deleted ingredient %q from %q", name, r.Title)
		return nil
	})
}
