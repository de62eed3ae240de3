// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages, so the auth client can log the full chain while only
// showing the short message to the user.
//
// Identity provider failures are not wrapped here; they carry their own message text
// (see internal/identity.Error) and are shown verbatim.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// RegistrationFailed indicates the backend rejected or never received the user upsert.
	RegistrationFailed Kind = "registration_failed"
	// SessionUnavailable indicates the local session store could not be read or written.
	SessionUnavailable Kind = "session_unavailable"
	// NoCurrentUser indicates an operation needed a signed-in provider session.
	NoCurrentUser Kind = "no_current_user"
	// ConfigInvalid indicates required configuration is missing or malformed.
	ConfigInvalid Kind = "config_invalid"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Message returns the text suitable for a user notification.
// Typed errors yield their Message; anything else yields err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *E
	if stderrors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
