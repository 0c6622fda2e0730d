// Package common holds the error taxonomy shared by every layer. Callers wrap
// these sentinels with a human readable message and match them with errors.Is.
package common

import (
	"errors"
	"fmt"
)

var (
	// Malformed or out-of-range input.
	ErrValidation = errors.New("validation error")

	// Missing, malformed or expired token, or bad credentials.
	ErrUnauthenticated = errors.New("unauthenticated")

	// Valid identity, insufficient privilege.
	ErrForbidden = errors.New("forbidden")

	// Store-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Error pairs one of the sentinels above with a message meant for the client.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Kind.Error() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
