package database

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced row does not exist for the
// caller's company. Cross-tenant lookups answer with this error rather than
// revealing that the row exists under another company.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized is returned for bad credentials or a missing tenant scope.
var ErrUnauthorized = errors.New("unauthorized")

// ValidationError describes malformed input: an empty name, a descriptor of
// the wrong length, or an invalid event kind.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError with a formatted message.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
