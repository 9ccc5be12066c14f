package domain

import (
	"github.com/allisson/kaurna/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors so the
// HTTP layer can map them to status codes.
var (
	// ErrInvalidKeySize indicates the data key is not a valid AES key length.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidIVSize indicates a caller-supplied IV is not exactly one cipher block.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrInvalidIVSize = errors.Wrap(errors.ErrInvalidInput, "invalid iv size")

	// ErrDecryptionFailed indicates the ciphertext could not be decrypted.
	//
	// This error can occur due to:
	//   - Input that is not valid base64
	//   - Input shorter than one cipher block, or not block aligned
	//   - Malformed padding (usually a wrong key)
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrAuthorizationFailed indicates the master-key service refused to unwrap a
	// data key under the supplied encryption context.
	//
	// HTTP Status: 403 Forbidden
	ErrAuthorizationFailed = errors.Wrap(errors.ErrForbidden, "authorization context rejected")

	// ErrKeyServiceFailed indicates any other master-key service failure.
	//
	// HTTP Status: 503 Service Unavailable
	ErrKeyServiceFailed = errors.Wrap(errors.ErrUnavailable, "key service failed")
)
