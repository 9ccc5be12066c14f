// Package errors defines the error kinds shared by the secret engine. Each module
// wraps one of these kinds into its own sentinels (secret not found, authorization
// context rejected, key service failed, ...), and the HTTP and CLI surfaces only
// ever look at the kind.
package errors

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	// ErrNotFound: no secret version matches the lookup.
	ErrNotFound = errors.New("not found")

	// ErrConflict: an explicitly requested secret version is already stored.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput: a name, value, version filter, key or ciphertext is malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized: the caller presented no valid API token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden: the key service refused to unwrap a data key under the
	// supplied authorization context.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable: the key service or the record store failed.
	ErrUnavailable = errors.New("unavailable")
)

// kinds is ordered from the most to the least specific outcome for a caller.
var kinds = []error{
	ErrInvalidInput,
	ErrUnauthorized,
	ErrForbidden,
	ErrNotFound,
	ErrConflict,
	ErrUnavailable,
}

// Wrap prefixes err with message, keeping err in the chain. A nil err stays nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// KindOf returns the error kind carried by err, or nil when err carries none.
func KindOf(err error) error {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
