package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrUnknownParticipant    = errors.New("unknown participant")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// UnknownParticipantError reports the first name that did not resolve to a
// roster entry. It matches both ErrUnknownParticipant and ErrInvalidInput.
type UnknownParticipantError struct {
	Name string
}

func (e *UnknownParticipantError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownParticipant, e.Name)
}

func (e *UnknownParticipantError) Unwrap() []error {
	return []error{ErrUnknownParticipant, ErrInvalidInput}
}
