package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an update or fetch targets a missing record.
// Deletes of missing records succeed without it.
var ErrNotFound = errors.New("record not found")

// ValidationError carries a user-facing message for rejected input. It is
// raised before any I/O; nothing is partially applied.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
