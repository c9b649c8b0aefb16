package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrInternalServer = errors.New("internal server error")

	// ErrValidation marks malformed, missing or out-of-range input.
	// Wrap it with the user-facing reason: fmt.Errorf("%w: category is required", ErrValidation)
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials is returned when no principal matches the identifier/password pair
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidState is returned when a complaint's status forbids the requested change
	ErrInvalidState = errors.New("invalid complaint state")
)
