package service

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	// Unknown usernames, inactive accounts and wrong passwords all map to it.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidToken is returned for malformed, expired or wrongly signed tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrUnauthorized is returned when a valid token references a missing or inactive admin.
	ErrUnauthorized = errors.New("invalid or inactive admin account")
	// ErrForbidden is returned when the caller's role does not allow the operation.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrNotFound indicates that the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAdminExists is returned when a username or email is already taken.
	ErrAdminExists = errors.New("username or email already exists")
	// ErrIncorrectPassword is returned when the current password does not verify.
	ErrIncorrectPassword = errors.New("current password is incorrect")
	// ErrStorageDisabled is returned by snapshot operations when no bucket is configured.
	ErrStorageDisabled = errors.New("export storage is not configured")
	// ErrValidation matches every *ValidationError via errors.Is.
	ErrValidation = errors.New("validation error")
)

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every field constraint violated by an input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}
