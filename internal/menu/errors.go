package menu

import (
	"fmt"
	"strings"
)

// FieldError names one rejected field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned by mutations whose input breaks a field or
// referential rule. The menu passed in is left untouched.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Reason
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

// errOrNil returns e only when it collected at least one field.
func (e *ValidationError) errOrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func invalid(field, reason string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Reason: reason}}}
}

// DocumentIntegrityError reports a stored document that cannot be turned
// into a valid Menu.
type DocumentIntegrityError struct {
	Problems []string
	Err      error
}

func (e *DocumentIntegrityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("menu document integrity: %v", e.Err)
	}
	return "menu document integrity: " + strings.Join(e.Problems, "; ")
}

func (e *DocumentIntegrityError) Unwrap() error { return e.Err }
