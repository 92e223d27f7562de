package editor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hammamikhairi/larder/internal/domain"
)

// Edit replaces the draft text of a scalar field. Nothing is persisted
// until the field is committed. Fields other than the title cannot be
// edited while the title is suspended.
func (s *Session) Edit(field domain.Field, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if int(field) < 0 || int(field) >= fieldCount {
		return fmt.Errorf("unknown field %d", field)
	}
	if field != domain.FieldTitle && s.state == TitleSuspended {
		return domain.ErrTitleSuspended
	}
	s.drafts[field] = text
	return nil
}

// Commit persists the draft of a scalar field and, on success, applies it
// to the in-memory recipe. A draft equal to the committed value is a
// no-op.
func (s *Session) Commit(ctx context.Context, field domain.Field) error {
	return s.do(ctx, func() error {
		return s.commitField(ctx, field)
	})
}

// Select sets the draft of the unit or category field and commits it, the
// way a choice box commits on change.
func (s *Session) Select(ctx context.Context, field domain.Field, value string) error {
	if field != domain.FieldUnit && field != domain.FieldCategory {
		return fmt.Errorf("%s is not a choice field", field)
	}
	return s.do(ctx, func() error {
		if s.state == TitleSuspended {
			return domain.ErrTitleSuspended
		}
		s.drafts[field] = value
		return s.commitField(ctx, field)
	})
}

func (s *Session) commitField(ctx context.Context, field domain.Field) error {
	switch field {
	case domain.FieldTitle:
		return s.commitTitle(ctx)
	case domain.FieldDuration, domain.FieldUnit, domain.FieldPortions, domain.FieldCategory, domain.FieldSteps:
		return s.commitScalar(ctx, field)
	default:
		return fmt.Errorf("unknown field %d", field)
	}
}

// commitTitle resolves the identity of the current recipe. Surrounding
// whitespace is trimmed from the committed title only; the draft keeps
// what was typed. A new unique
// title replaces the recipe row: the old row (and its children) is
// deleted and the recipe is inserted again under the new title with its
// ingredients and tags.
func (s *Session) commitTitle(ctx context.Context) error {
	r := s.current()
	title := strings.TrimSpace(s.drafts[domain.FieldTitle])

	if title == "" {
		s.suspend()
		s.inform("%s", capitalize(domain.ErrBlankTitle.Error()))
		return domain.ErrBlankTitle
	}

	if title == r.Title {
		if s.state == TitleSuspended {
			s.log.Debug("title of %q restored, resuming edits", title)
			s.state = Editable
		}
		return nil
	}

	if s.titleTaken(title) {
		if s.suspend() {
			s.inform("A recipe titled %q already exists", title)
		}
		return fmt.Errorf("title %q: %w", title, domain.ErrDuplicateKey)
	}

	renamed := r.Clone()
	renamed.Title = title

	if r.Title != "" {
		err := s.call(ctx, func(ctx context.Context) error { return s.store.DeleteRecipe(ctx, r.Title) })
		if err != nil {
			return s.reportStoreError(fmt.Sprintf("rename %q", r.Title), err)
		}
	}

	err := s.call(ctx, func(ctx context.Context) error { return s.store.InsertRecipe(ctx, renamed) })
	if err != nil {
		s.restore(ctx, r)
		if errors.Is(err, domain.ErrDuplicateKey) {
			if s.suspend() {
				s.inform("A recipe titled %q already exists", title)
			}
			return err
		}
		return s.reportStoreError(fmt.Sprintf("save %q", title), err)
	}

	s.recipes[s.index] = renamed
	s.state = Editable
	if r.Title == "" {
		s.log.Info("created recipe %q", title)
	} else {
		s.log.Info("renamed recipe %q to %q", r.Title, title)
	}
	return nil
}

// restore puts back a recipe whose row was deleted by a rename that then
// failed to insert.
func (s *Session) restore(ctx context.Context, r *domain.Recipe) {
	if r.Title == "" {
		return
	}
	err := s.call(ctx, func(ctx context.Context) error { return s.store.InsertRecipe(ctx, r) })
	if err != nil {
		s.log.Error("restoring %q after failed rename: %v", r.Title, err)
	}
}

// suspend enters TitleSuspended and reports whether that was a
// transition.
func (s *Session) suspend() bool {
	if s.state == TitleSuspended {
		return false
	}
	s.state = TitleSuspended
	s.log.Debug("title of recipe %d suspended", s.index)
	return true
}

func (s *Session) titleTaken(title string) bool {
	for i, r := range s.recipes {
		if i != s.index && r.Title == title {
			return true
		}
	}
	return false
}

func (s *Session) commitScalar(ctx context.Context, field domain.Field) error {
	if s.state == TitleSuspended {
		return domain.ErrTitleSuspended
	}
	r := s.current()

	value, err := s.parseDraft(field, r)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			s.inform("Invalid %s: %q %s", ve.Field, ve.Input, ve.Reason)
		}
		return err
	}
	if fieldValue(r, field) == value {
		return nil
	}

	err = s.call(ctx, func(ctx context.Context) error {
		return s.store.UpdateRecipeField(ctx, r.Title, field, value)
	})
	if err != nil {
		return s.reportStoreError(fmt.Sprintf("save the %s of %q", field, r.Title), err)
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
	s.log.Debug("committed %s of %q", field, r.Title)
	return nil
}

// parseDraft converts the draft of a field to its typed value. On failure
// the draft is restored from the committed recipe.
func (s *Session) parseDraft(field domain.Field, r *domain.Recipe) (any, error) {
	text := s.drafts[field]
	fail := func(reason string, restored string) (any, error) {
		s.drafts[field] = restored
		return nil, &domain.ValidationError{Field: field.String(), Input: text, Reason: reason}
	}

	switch field {
	case domain.FieldDuration:
		v, err := parseQuantity(text)
		if err != nil {
			return fail("is not a non-negative number", domain.FormatNumber(r.Duration))
		}
		return v, nil
	case domain.FieldPortions:
		v, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil || v < 0 {
			return fail("is not a non-negative whole number", fmt.Sprint(r.Portions))
		}
		return v, nil
	case domain.FieldUnit:
		u, ok := domain.ParseDurationUnit(text)
		if !ok {
			return fail("is not minutes or hours", r.Unit.String())
		}
		return u, nil
	case domain.FieldCategory:
		c := domain.Category(strings.ToLower(strings.TrimSpace(text)))
		if !c.Valid() {
			return fail("is not a known category", string(r.Category))
		}
		return c, nil
	default:
		return text, nil
	}
}

func fieldValue(r *domain.Recipe, field domain.Field) any {
	switch field {
	case domain.FieldTitle:
		return r.Title
	case domain.FieldDuration:
		return r.Duration
	case domain.FieldUnit:
		return r.Unit
	case domain.FieldPortions:
		return r.Portions
	case domain.FieldCategory:
		return r.Category
	default:
		return r.Steps
	}
}

// parseQuantity parses a non-negative decimal. A comma is accepted as the
// decimal separator.
func parseQuantity(text string) (float64, error) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is out of range", text)
	}
	return v, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
