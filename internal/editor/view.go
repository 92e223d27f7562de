package editor

import (
	"github.com/hammamikhairi/larder/internal/domain"
)

// View is a read-only snapshot of the session for rendering.
type View struct {
	Index int
	Count int
	State EditState

	Title    string
	Duration string
	Unit     string
	Portions string
	Category string
	Steps    string

	Tags        []TagSlot       // slot order, trailing blank slot last
	Ingredients []IngredientRow // newest first
	KnownTags   []string
	Readiness   float64

	Recipe *domain.Recipe // committed values
}

// TagSlot is the rendered state of one tag input.
type TagSlot struct {
	Text      string
	Committed string
}

// IngredientRow is the rendered state of one ingredient row.
type IngredientRow struct {
	ID       string
	Name     string
	Quantity string
	Unit     string
	Active   bool
	Frozen   bool
	// ControlsEnabled gates quantity, unit and delete.
	ControlsEnabled bool
}

// FieldsEnabled reports whether fields other than the title accept edits.
func (v View) FieldsEnabled() bool {
	return v.State == Editable
}

// Snapshot returns the current view.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		Index:     s.index,
		Count:     len(s.recipes),
		State:     s.state,
		Title:     s.drafts[domain.FieldTitle],
		Duration:  s.drafts[domain.FieldDuration],
		Unit:      s.drafts[domain.FieldUnit],
		Portions:  s.drafts[domain.FieldPortions],
		Category:  s.drafts[domain.FieldCategory],
		Steps:     s.drafts[domain.FieldSteps],
		KnownTags: append([]string(nil), s.knownTags...),
		Readiness: s.readiness,
		Recipe:    s.current().Clone(),
	}
	for _, t := range s.tags {
		v.Tags = append(v.Tags, TagSlot{Text: t.text, Committed: t.tag})
	}
	for i := len(s.rows) - 1; i >= 0; i-- {
		r := s.rows[i]
		v.Ingredients = append(v.Ingredients, IngredientRow{
			ID:              r.id,
			Name:            r.name,
			Quantity:        r.quantity,
			Unit:            r.unit,
			Active:          r.active(),
			Frozen:          r.frozen(),
			ControlsEnabled: r.controlsEnabled(),
		})
	}
	return v
}
