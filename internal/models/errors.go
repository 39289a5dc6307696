package models

import "fmt"

// InvalidStateError is returned when a state machine operation is attempted
// from a status that does not permit it. The entity is left unchanged.
type InvalidStateError struct {
	Entity string // "request" or "booking"
	Status string // status at the time of the attempt
	Op     string // the named transition
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s %s in status %q", e.Op, e.Entity, e.Status)
}

// ValidationError marks a client mistake (empty content, unknown status
// string, too-short description). Handlers map it to a 4xx response; the
// websocket loop reports it and keeps the session alive.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
