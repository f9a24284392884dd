package service

import (
	"errors"
	"strings"
)

// Sentinel errors shared by the services. Handlers translate these into the
// HTTP error taxonomy; raw storage errors never reach clients.
var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("User already exists with this email")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrDuplicateFavorite  = errors.New("Recipe already in favorites")
	ErrNotOwner           = errors.New("not authorized")
	ErrInvalidToken       = errors.New("invalid token")
)

// ValidationError carries every field-level violation found in a request.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, ", ")
}

// NewValidationError returns nil when there are no violations.
func NewValidationError(msgs []string) error {
	if len(msgs) == 0 {
		return nil
	}
	return &ValidationError{Errors: msgs}
}
