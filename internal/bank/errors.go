// Package bank implements the question-bank data model: an ordered category tree of
// questions plus an optional two-level taxonomy, mutated only through operations that
// return a complete replacement snapshot.
package bank

import "fmt"

// Kinds of named items, used in error messages.
const (
	KindCompany      = "company"
	KindCategory     = "category"
	KindMainCategory = "main category"
	KindSubCategory  = "sub-category"
)

// DuplicateNameError indicates a name that must be unique already exists.
type DuplicateNameError struct {
	Kind string
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Kind, e.Name)
}

// LastItemError indicates an attempt to delete the last remaining item of a kind.
type LastItemError struct {
	Kind string
}

func (e *LastItemError) Error() string {
	return fmt.Sprintf("at least one %s is required", e.Kind)
}

// ValidationError indicates an empty or malformed required field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}
