// Package errors provides common domain error types for meetflow.
//
// This package defines sentinel errors for common domain conditions like
// "not found" or "missing configuration" that can be used across all
// packages. Using typed errors enables consistent error handling patterns
// with errors.Is() checks.
//
// Usage:
//
//	import mferrors "github.com/otherjamesbrown/meetflow/pkg/errors"
//
//	// Return a domain error
//	return nil, mferrors.ErrNotFound
//
//	// Check for domain errors
//	if mferrors.IsNotFound(err) {
//	    // handle not found case
//	}
package errors

import "errors"

// Domain errors - common sentinel errors for domain conditions.
var (
	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates invalid input or validation failure.
	ErrValidation = errors.New("validation error")

	// ErrConfiguration indicates missing or invalid configuration, such as
	// an absent API credential. Configuration errors are fatal and are
	// never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrAlreadyExists indicates the resource already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidState indicates the operation is not valid for the current state.
	ErrInvalidState = errors.New("invalid state")
)

// IsNotFound reports whether any error in err's chain is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether any error in err's chain is ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConfiguration reports whether any error in err's chain is ErrConfiguration.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsAlreadyExists reports whether any error in err's chain is ErrAlreadyExists.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsInvalidState reports whether any error in err's chain is ErrInvalidState.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}
