package domain

// Field identifies an editable scalar attribute of a recipe.
type Field int

const (
	FieldTitle Field = iota
	FieldDuration
	FieldUnit
	FieldPortions
	FieldCategory
	FieldSteps
)

// String returns the column-style name of the field.
func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldDuration:
		return "duration"
	case FieldUnit:
		return "unit"
	case FieldPortions:
		return "portions"
	case FieldCategory:
		return "category"
	case FieldSteps:
		return "steps"
	default:
		return "unknown"
	}
}

// fieldNames maps names to Field values.
var fieldNames = map[string]Field{
	"title":    FieldTitle,
	"duration": FieldDuration,
	"unit":     FieldUnit,
	"portions": FieldPortions,
	"category": FieldCategory,
	"steps":    FieldSteps,
}

// FieldFromString converts a field name to a Field.
func FieldFromString(name string) (Field, bool) {
	f, ok := fieldNames[name]
	return f, ok
}
