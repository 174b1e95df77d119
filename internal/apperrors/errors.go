// Package apperrors defines the sentinel errors shared by services and
// handlers. Services wrap them with context via %w; handlers translate
// them to HTTP statuses with errors.Is.
package apperrors

import "errors"

var (
	// ErrValidation marks malformed or missing input. Maps to 400.
	ErrValidation = errors.New("validation error")

	// ErrNotAuthorized marks any authentication failure. Maps to 401.
	// Deliberately undifferentiated: callers never learn which check
	// rejected them.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrNotFound marks a missing resource or unknown verification
	// token. Maps to 404.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a duplicate email at signup. Maps to 409.
	ErrConflict = errors.New("conflict")
)
