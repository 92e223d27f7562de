package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across layers.
var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrStorage            = errors.New("storage failure")
	ErrValidation         = errors.New("invalid input")
	ErrBlankTitle         = errors.New("the title of the recipe can not be empty")
	ErrTitleSuspended     = errors.New("recipe title is unresolved")
	ErrIngredientInactive = errors.New("ingredient has no name")
	ErrNoRecipe           = errors.New("no current recipe")
)

// ValidationError describes malformed user input for a single field.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field  string
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %q %s", e.Field, e.Input, e.Reason)
}

// Is reports ErrValidation as a match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IsDuplicateKey reports whether err is a unique-constraint violation.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}
