// Package service provides the API token service used to authenticate HTTP callers.
//
// Tokens are random 32-byte values shown once at creation; only their Argon2id
// hash is kept in configuration.
package service

// TokenService defines operations for API token generation and verification.
type TokenService interface {
	// GenerateToken creates a new cryptographically secure random token.
	// Returns both the plain text token (to be handed to the caller) and the
	// Argon2id hash (to be stored as AUTH_TOKEN_HASH).
	GenerateToken() (plainToken string, tokenHash string, err error)

	// VerifyToken reports whether plainToken matches tokenHash. Comparison is
	// constant-time; malformed hashes never match.
	VerifyToken(plainToken, tokenHash string) bool
}
