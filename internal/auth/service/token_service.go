package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/kaurna/internal/errors"
)

// tokenSize is the number of random bytes in a plain token.
const tokenSize = 32

// tokenService implements TokenService using Argon2id for token hashing.
type tokenService struct {
	hasher *pwdhash.PasswordHasher
}

// GenerateToken creates a new 32-byte random token, base64 URL-encoded, and its hash.
func (t *tokenService) GenerateToken() (plainToken string, tokenHash string, err error) {
	randomBytes := make([]byte, tokenSize)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token")
	}

	plainToken = base64.URLEncoding.EncodeToString(randomBytes)

	tokenHash, err = t.hasher.Hash([]byte(plainToken))
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to hash token")
	}

	return plainToken, tokenHash, nil
}

// VerifyToken checks plainToken against an Argon2id hash.
func (t *tokenService) VerifyToken(plainToken, tokenHash string) bool {
	if plainToken == "" || tokenHash == "" {
		return false
	}
	ok, err := t.hasher.Verify([]byte(plainToken), tokenHash)
	if err != nil {
		return false
	}
	return ok
}

// NewTokenService creates a new TokenService using Argon2id with the Moderate policy.
func NewTokenService() TokenService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &tokenService{
		hasher: hasher,
	}
}
