// Package apperr defines the domain error taxonomy shared by services and
// HTTP handlers. Services return these errors; the HTTP layer maps them to
// status codes without inspecting storage internals.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound signals that the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicateIdentity signals a username or email collision at registration.
	ErrDuplicateIdentity = errors.New("user already exists with this email or username")
	// ErrInvalidCredentials is returned for any failed login, regardless of
	// whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated signals a missing or unverifiable bearer token.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden signals an authenticated caller without mutation rights.
	ErrForbidden = errors.New("not authorized to perform this action")
	// ErrTokenInvalid signals a malformed or badly signed token.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired signals a token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrAuthSetup signals that token minting failed after the identity was
	// persisted; registration is rolled back before this is returned.
	ErrAuthSetup = errors.New("authentication setup failed")
	// ErrCompetitionClosed signals an entry submitted to a competition that
	// is completed or cancelled.
	ErrCompetitionClosed = errors.New("competition is not accepting entries")
	// ErrEntryLimitReached signals a competition already holding max entries.
	ErrEntryLimitReached = errors.New("competition entry limit reached")
	// ErrInvalidTransition signals a status change violating the monotonic
	// competition lifecycle.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrRateLimited signals too many credential attempts from one client.
	ErrRateLimited = errors.New("too many attempts, try again later")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates field-level input failures. It is built up by
// validators and reported to the caller as a 400 with the full field list.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Add records a failure for the named field.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Empty reports whether no failures were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
