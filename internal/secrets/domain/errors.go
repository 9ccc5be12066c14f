package domain

import (
	"github.com/allisson/kaurna/internal/errors"
)

// Secret-specific error definitions.
var (
	// ErrInvalidArgument indicates a required input (secret value, name) is missing or malformed.
	ErrInvalidArgument = errors.Wrap(errors.ErrInvalidInput, "invalid argument")

	// ErrVersionWithoutName indicates a version filter was given without a secret name.
	ErrVersionWithoutName = errors.Wrap(ErrInvalidArgument, "version requires a name")

	// ErrVersionConflict indicates an explicitly requested version is already stored.
	ErrVersionConflict = errors.Wrap(errors.ErrConflict, "secret version already exists")

	// ErrSecretNotFound indicates no stored version matches the lookup, including the
	// case where every version is deprecated.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrRecordStoreFailed indicates the record store failed.
	ErrRecordStoreFailed = errors.Wrap(errors.ErrUnavailable, "record store failed")
)
