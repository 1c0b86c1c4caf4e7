package shop

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup names an id that does not exist.
// It short-circuits before any ledger logic runs.
var ErrNotFound = errors.New("entity not found")

// ErrDuplicateEmail is returned when a client registration reuses an email.
var ErrDuplicateEmail = errors.New("email already registered")

// ValidationError reports a rejected mutation, most importantly an attempt
// to reserve more units than are on hand. The enclosing transaction is
// rolled back; no partial stock mutation persists.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
