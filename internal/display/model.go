package display

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/larder/internal/domain"
	"github.com/hammamikhairi/larder/internal/editor"
)

type targetKind int

const (
	targetField targetKind = iota
	targetTag
	targetIngredient
)

// target is one focusable input on the screen.
type target struct {
	kind  targetKind
	field domain.Field
	tag   int
	row   string
	part  editor.IngredientPart
}

type model struct {
	ctx     context.Context
	session *editor.Session
	copyFn  func(string) error

	view    editor.View
	targets []target
	focus   int
	input   textinput.Model

	status        string
	statusUrgent  bool
	confirmQuit   bool
	confirmDelete bool
	suggestion    int
	width         int
}

func newModel(ctx context.Context, session *editor.Session, copyFn func(string) error) model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.TextStyle = focusStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.CharLimit = 2000
	ti.Width = 50
	ti.Focus()

	m := model{
		ctx:     ctx,
		session: session,
		copyFn:  copyFn,
		input:   ti,
	}
	m.sync(true)
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.SetWindowTitle("larder"))
}

// sync re-reads the session and keeps focus on the same target when it
// still exists. With reload the input text is replaced by the draft.
func (m *model) sync(reload bool) {
	var prev *target
	if m.focus < len(m.targets) {
		t := m.targets[m.focus]
		prev = &t
	}

	m.view = m.session.Snapshot()
	m.targets = targetsOf(m.view)

	m.focus = min(m.focus, len(m.targets)-1)
	if prev != nil {
		if i := slices.Index(m.targets, *prev); i >= 0 {
			m.focus = i
		} else {
			reload = true
		}
	}

	text := textOf(m.view, m.targets[m.focus])
	if reload || text != m.input.Value() {
		m.input.SetValue(text)
		m.input.CursorEnd()
	}
}

func targetsOf(v editor.View) []target {
	var out []target
	for f := domain.FieldTitle; f <= domain.FieldSteps; f++ {
		out = append(out, target{kind: targetField, field: f})
	}
	for i := range v.Tags {
		out = append(out, target{kind: targetTag, tag: i})
	}
	for _, r := range v.Ingredients {
		for _, p := range []editor.IngredientPart{editor.PartName, editor.PartQuantity, editor.PartUnit} {
			out = append(out, target{kind: targetIngredient, row: r.ID, part: p})
		}
	}
	return out
}

func rowOf(v editor.View, id string) (editor.IngredientRow, bool) {
	for _, r := range v.Ingredients {
		if r.ID == id {
			return r, true
		}
	}
	return editor.IngredientRow{}, false
}

func textOf(v editor.View, t target) string {
	switch t.kind {
	case targetField:
		switch t.field {
		case domain.FieldTitle:
			return v.Title
		case domain.FieldDuration:
			return v.Duration
		case domain.FieldUnit:
			return v.Unit
		case domain.FieldPortions:
			return v.Portions
		case domain.FieldCategory:
			return v.Category
		default:
			return v.Steps
		}
	case targetTag:
		if t.tag < len(v.Tags) {
			return v.Tags[t.tag].Text
		}
	case targetIngredient:
		r, ok := rowOf(v, t.row)
		if !ok {
			return ""
		}
		switch t.part {
		case editor.PartName:
			return r.Name
		case editor.PartQuantity:
			return r.Quantity
		default:
			return r.Unit
		}
	}
	return ""
}

func enabled(v editor.View, t target) bool {
	if t.kind == targetField && t.field == domain.FieldTitle {
		return true
	}
	if !v.FieldsEnabled() {
		return false
	}
	if t.kind == targetIngredient && t.part != editor.PartName {
		r, ok := rowOf(v, t.row)
		return ok && r.ControlsEnabled
	}
	return true
}

func (m *model) focused() target {
	return m.targets[m.focus]
}

func (m *model) setStatus(text string, urgent bool) {
	m.status = text
	m.statusUrgent = urgent
}

// pushDraft hands the input text to the session. A rejected edit puts the
// session's text back.
func (m *model) pushDraft() {
	t := m.focused()
	text := m.input.Value()
	var err error
	switch t.kind {
	case targetField:
		err = m.session.Edit(t.field, text)
	case targetTag:
		err = m.session.EditTag(t.tag, text)
	case targetIngredient:
		err = m.session.EditIngredient(t.row, t.part, text)
	}
	if err != nil {
		m.setStatus(disabledReason(err), false)
		m.sync(true)
		return
	}
	m.view = m.session.Snapshot()
}

func disabledReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrTitleSuspended):
		return "Give the recipe a unique title first"
	case errors.Is(err, domain.ErrIngredientInactive):
		return "Name the ingredient first"
	default:
		return err.Error()
	}
}

// commitFocused commits the focused input. Errors are already reported
// through the notifier.
func (m *model) commitFocused() {
	t := m.focused()
	switch t.kind {
	case targetField:
		m.session.Commit(m.ctx, t.field)
	case targetTag:
		m.session.CommitTag(m.ctx, t.tag)
	case targetIngredient:
		m.session.CommitIngredient(m.ctx, t.row, t.part)
	}
	m.sync(true)
}

func (m *model) moveFocus(step int) {
	n := len(m.targets)
	m.focus = ((m.focus+step)%n + n) % n
	m.suggestion = -1
	m.input.SetValue(textOf(m.view, m.focused()))
	m.input.CursorEnd()
}

func (m *model) focusOn(t target) {
	m.sync(true)
	if i := slices.Index(m.targets, t); i >= 0 {
		m.focus = i
		m.input.SetValue(textOf(m.view, t))
		m.input.CursorEnd()
	}
}

// cycle replaces the input with the next option and returns it.
func (m *model) cycle(options []string, step int) string {
	if len(options) == 0 {
		return m.input.Value()
	}
	i := slices.Index(options, strings.TrimSpace(m.input.Value()))
	if i < 0 {
		i = m.suggestion
	}
	i = ((i+step)%len(options) + len(options)) % len(options)
	m.suggestion = i
	return options[i]
}

func unitOptions() []string {
	return []string{domain.UnitMinutes.String(), domain.UnitHours.String()}
}

func categoryOptions() []string {
	out := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		out[i] = string(c)
	}
	return out
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.setStatus(msg.text, msg.urgent)
		return m, nil

	case refreshMsg:
		m.sync(false)
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 20 {
			m.input.Width = msg.Width - 20
		}
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		if key != "ctrl+c" {
			m.confirmQuit = false
		}
		if key != "ctrl+d" {
			m.confirmDelete = false
		}

		switch key {
		case "ctrl+c":
			if m.view.State == editor.TitleSuspended && !m.confirmQuit {
				m.confirmQuit = true
				m.setStatus("The title is unresolved. Press ctrl+c again to discard it and quit", true)
				return m, nil
			}
			return m, tea.Quit

		case "tab", "down":
			if key == "down" && m.cycleFocused(+1) {
				return m, nil
			}
			m.commitFocused()
			m.moveFocus(+1)
			return m, nil

		case "shift+tab", "up":
			if key == "up" && m.cycleFocused(-1) {
				return m, nil
			}
			m.commitFocused()
			m.moveFocus(-1)
			return m, nil

		case "enter":
			m.commitFocused()
			return m, nil

		case "left", "right":
			t := m.focused()
			if t.kind == targetField && (t.field == domain.FieldUnit || t.field == domain.FieldCategory) {
				step := 1
				if key == "left" {
					step = -1
				}
				opts := unitOptions()
				if t.field == domain.FieldCategory {
					opts = categoryOptions()
				}
				if err := m.session.Select(m.ctx, t.field, m.cycle(opts, step)); err != nil {
					m.setStatus(disabledReason(err), false)
				}
				m.sync(true)
				return m, nil
			}

		case "ctrl+n":
			m.session.Next(m.ctx)
			m.focus = 0
			m.sync(true)
			return m, nil

		case "ctrl+p":
			m.session.Previous(m.ctx)
			m.focus = 0
			m.sync(true)
			return m, nil

		case "ctrl+a":
			m.session.Create(m.ctx)
			m.focus = 0
			m.sync(true)
			return m, nil

		case "ctrl+d":
			if !m.confirmDelete {
				m.confirmDelete = true
				m.setStatus("Press ctrl+d again to delete this recipe", true)
				return m, nil
			}
			m.confirmDelete = false
			if err := m.session.Delete(m.ctx); err == nil {
				m.setStatus("Recipe deleted", false)
			}
			m.focus = 0
			m.sync(true)
			return m, nil

		case "ctrl+g":
			m.commitFocused()
			id, err := m.session.AddIngredient()
			if err != nil {
				m.setStatus(disabledReason(err), false)
				return m, nil
			}
			m.focusOn(target{kind: targetIngredient, row: id, part: editor.PartName})
			return m, nil

		case "ctrl+x":
			t := m.focused()
			if t.kind != targetIngredient {
				return m, nil
			}
			if err := m.session.DeleteIngredient(m.ctx, t.row); err != nil {
				m.setStatus(disabledReason(err), false)
			}
			m.sync(true)
			return m, nil

		case "ctrl+s":
			m.session.AutoSave(m.ctx)
			m.sync(true)
			m.setStatus("Saved", false)
			return m, nil

		case "ctrl+y":
			m.session.AutoSave(m.ctx)
			v := m.session.Snapshot()
			if err := m.copyFn(PlainText(v.Recipe, v.Readiness)); err != nil {
				m.setStatus(fmt.Sprintf("Could not copy: %v", err), true)
			} else {
				m.setStatus("Recipe copied to the clipboard", false)
			}
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.pushDraft()
	}
	return m, cmd
}

// cycleFocused offers suggestions on tag slots (known tags) and
// ingredient units (presets). Reports whether it handled the key.
func (m *model) cycleFocused(step int) bool {
	t := m.focused()
	var opts []string
	switch {
	case t.kind == targetTag:
		opts = m.view.KnownTags
	case t.kind == targetIngredient && t.part == editor.PartUnit:
		opts = domain.UnitPresets
	default:
		return false
	}
	if len(opts) == 0 || !enabled(m.view, t) {
		return false
	}
	m.input.SetValue(m.cycle(opts, step))
	m.input.CursorEnd()
	m.pushDraft()
	return true
}

func (m model) View() string {
	v := m.view
	var b strings.Builder

	state := okStyle.Render("editable")
	if v.State == editor.TitleSuspended {
		state = urgentStyle.Render("title unresolved")
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf(" Recipe %d/%d ", v.Index+1, v.Count)))
	b.WriteString("  " + state)
	b.WriteString("  " + labelStyle.Render("ready ") + readinessStyle.Render(FormatReadiness(v.Readiness)))
	b.WriteString("\n\n")

	labels := []string{"Title", "Duration", "Unit", "Portions", "Category", "Steps"}
	for f := domain.FieldTitle; f <= domain.FieldSteps; f++ {
		b.WriteString(labelStyle.Render(fmt.Sprintf("  %-10s", labels[f])))
		b.WriteString(m.cell(target{kind: targetField, field: f}))
		b.WriteByte('\n')
	}

	b.WriteString("\n" + labelStyle.Render("  Tags      "))
	for i := range v.Tags {
		b.WriteString("[" + m.cell(target{kind: targetTag, tag: i}) + "] ")
	}
	b.WriteString("\n\n" + labelStyle.Render("  Ingredients") + "\n")
	if len(v.Ingredients) == 0 {
		b.WriteString(secondaryStyle.Render("    none yet, ctrl+g adds one") + "\n")
	}
	for _, r := range v.Ingredients {
		b.WriteString("    ")
		b.WriteString(m.cell(target{kind: targetIngredient, row: r.ID, part: editor.PartName}))
		b.WriteString(sepStyle.Render("  │  "))
		b.WriteString(m.cell(target{kind: targetIngredient, row: r.ID, part: editor.PartQuantity}))
		b.WriteString(" ")
		b.WriteString(m.cell(target{kind: targetIngredient, row: r.ID, part: editor.PartUnit}))
		if r.Frozen {
			b.WriteString(secondaryStyle.Render("  (needs a name)"))
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	if m.status != "" {
		style := statusStyle
		if m.statusUrgent {
			style = urgentStyle
		}
		b.WriteString("  " + style.Render(m.status) + "\n")
	}
	b.WriteString(secondaryStyle.Render(
		"  tab/enter commit · ←/→ choose · ↑/↓ suggest · ctrl+n/p next/prev · ctrl+a new · ctrl+d delete\n" +
			"  ctrl+g add ingredient · ctrl+x remove ingredient · ctrl+s save · ctrl+y copy · ctrl+c quit"))
	return b.String()
}

// cell renders one input: the live text input when focused, otherwise
// its text styled by whether it accepts edits.
func (m model) cell(t target) string {
	if m.focus < len(m.targets) && m.targets[m.focus] == t {
		return focusMarker.Render("›") + m.input.View()
	}
	text := textOf(m.view, t)
	if text == "" {
		text = "_"
	}
	if !enabled(m.view, t) {
		return disabledStyle.Render(text)
	}
	return primaryStyle.Render(text)
}

// FormatReadiness renders a readiness fraction as a percentage, or a dash
// when there is nothing to measure.
func FormatReadiness(r float64) string {
	if math.IsNaN(r) {
		return "–"
	}
	return fmt.Sprintf("%.0f%%", r*100)
}
