package composer

import (
	"errors"
	"fmt"
)

var (
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrBusy           = errors.New("composer busy")
	ErrDraftNotFound  = errors.New("draft not found")
	ErrForbidden      = errors.New("draft belongs to another user")
	ErrUnknownField   = errors.New("unknown field")
	ErrUnknownPurpose = errors.New("unknown purpose type")
	ErrNotScalar      = errors.New("field is not a text field")
)

// ValidationError is returned when a submit is blocked by field rules.
type ValidationError struct {
	Result Result
	Focus  *Field
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d invalid field(s)", len(e.Result.FieldErrors.Invalid()))
}

// StoreError wraps a Post Store failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }
