// Package service provides the cryptographic services behind envelope encryption:
// the local AES-CBC cipher used with unwrapped data keys and the master-key
// services that mint and unwrap those data keys.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/kaurna/internal/crypto/domain"
)

// Cipher encrypts secret bytes under an already unwrapped data key.
type Cipher interface {
	// Encrypt encrypts plaintext and returns base64(IV || ciphertext).
	// A nil iv makes the cipher draw a random one.
	Encrypt(plaintext, key, iv []byte) (string, error)

	// Decrypt reverses Encrypt.
	Decrypt(ciphertext string, key []byte) ([]byte, error)
}

// KeyService wraps a master-key service.
type KeyService interface {
	// EnsureMasterKey makes sure the well-known master key exists and reports
	// whether it had to be created.
	EnsureMasterKey(ctx context.Context) (bool, error)

	// GenerateDataKey mints a new data key bound to encryptionContext.
	GenerateDataKey(
		ctx context.Context,
		encryptionContext cryptoDomain.EncryptionContext,
	) (*cryptoDomain.DataKey, error)

	// UnwrapDataKey returns the plaintext of a wrapped data key. It fails with
	// cryptoDomain.ErrAuthorizationFailed when encryptionContext does not match the
	// context the key was generated under.
	UnwrapDataKey(
		ctx context.Context,
		wrappedKey []byte,
		encryptionContext cryptoDomain.EncryptionContext,
	) ([]byte, error)
}
