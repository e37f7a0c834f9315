package apperr

import (
	"errors"
	"strings"
)

// Sentinel error kinds. Callers classify failures with errors.Is; the
// wrapped message carries the specifics.
var (
	// ErrNotFound indicates a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates rejected caller input.
	ErrValidation = errors.New("validation failed")
	// ErrAccessDenied indicates the actor is not a party to the record.
	ErrAccessDenied = errors.New("access denied")
	// ErrConflict indicates a lost concurrent-update race or an illegal
	// state transition.
	ErrConflict = errors.New("conflict")
	// ErrStorage indicates a persistence or blob storage failure.
	ErrStorage = errors.New("storage failure")
)

// NotFound tags an error as a missing-record failure.
func NotFound(msg string) error {
	return errors.Join(ErrNotFound, errors.New(strings.TrimSpace(msg)))
}

// Validation tags an error as an input validation failure.
func Validation(msg string) error {
	return errors.Join(ErrValidation, errors.New(strings.TrimSpace(msg)))
}

// AccessDenied tags an error as an authorization failure.
func AccessDenied(msg string) error {
	return errors.Join(ErrAccessDenied, errors.New(strings.TrimSpace(msg)))
}

// Conflict tags an error as a transition or concurrency conflict.
func Conflict(msg string) error {
	return errors.Join(ErrConflict, errors.New(strings.TrimSpace(msg)))
}

// Storage wraps an underlying storage error, keeping its chain.
func Storage(msg string, err error) error {
	if err == nil {
		return errors.Join(ErrStorage, errors.New(strings.TrimSpace(msg)))
	}
	return errors.Join(ErrStorage, errors.New(strings.TrimSpace(msg)), err)
}

// IsKind reports whether err already carries one of the kinds above.
func IsKind(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrAccessDenied) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrStorage)
}
