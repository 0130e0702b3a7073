package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy used across services. Wrap them
// with fmt.Errorf so errors.Is keeps working through the service layers:
//
//	fmt.Errorf("%w: text cannot be empty", core.ErrValidation)
var (
	// ErrValidation marks requests with missing or malformed required fields
	ErrValidation = errors.New("validation failed")

	// ErrAuthorization marks channel-access violations
	ErrAuthorization = errors.New("not authorized")

	// ErrNotFound marks lookups for messages or lists that do not exist
	ErrNotFound = errors.New("not found")

	// ErrUpstream marks failures from the store, identity provider,
	// vector index or LLM
	ErrUpstream = errors.New("upstream failure")
)

// NewValidationError builds a validation error for a missing field
func NewValidationError(field string) error {
	return fmt.Errorf("%w: %s is required", ErrValidation, field)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsAuthorizationError checks if an error is an authorization error
func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrAuthorization)
}

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUpstreamError checks if an error is an upstream failure
func IsUpstreamError(err error) bool {
	return errors.Is(err, ErrUpstream)
}
