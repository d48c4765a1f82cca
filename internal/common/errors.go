// Package common defines shared constants and sentinel errors used across
// the Conduit server layers. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")

	// Auth errors. ErrInvalidCredentials deliberately covers both
	// "unknown user" and "wrong password" so login responses cannot be
	// used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")

	// Authorization predicate failed; maps to 403 at the HTTP boundary.
	ErrForbidden = errors.New("forbidden")
)

// DuplicateError reports a uniqueness violation on a single field
// (username, email or slug). The message matches the original API's
// per-field validation output.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s is already taken", e.Field)
}

// IsDuplicate reports whether err is a DuplicateError and, if so, returns it.
func IsDuplicate(err error) (*DuplicateError, bool) {
	var d *DuplicateError
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}
