package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/gcerrors"
	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/kaurna/internal/crypto/domain"
)

// generateLocalSecretsURI generates a base64key:// URI for testing.
func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

func openTestKeeper(t *testing.T) *secrets.Keeper {
	t.Helper()
	keeper, err := OpenKeeper(context.Background(), generateLocalSecretsURI(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, keeper.Close())
	})
	return keeper
}

// failingKeeper returns err from every call.
type failingKeeper struct {
	err error
}

func (f *failingKeeper) Encrypt(context.Context, []byte) ([]byte, error) { return nil, f.err }
func (f *failingKeeper) Decrypt(context.Context, []byte) ([]byte, error) { return nil, f.err }
func (f *failingKeeper) Close() error                                    { return nil }

func TestOpenKeeper(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_LocalSecrets", func(t *testing.T) {
		keeper, err := OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		require.NotNil(t, keeper)
		assert.NoError(t, keeper.Close())
	})

	t.Run("Error_InvalidURI", func(t *testing.T) {
		keeper, err := OpenKeeper(ctx, "invalid://uri")
		assert.Error(t, err)
		assert.Nil(t, keeper)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
	})

	t.Run("Error_EmptyURI", func(t *testing.T) {
		keeper, err := OpenKeeper(ctx, "")
		assert.Error(t, err)
		assert.Nil(t, keeper)
	})
}

func TestKeeperKeyService_EnsureMasterKey(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_NeverCreates", func(t *testing.T) {
		svc := NewKeeperKeyService(openTestKeeper(t))
		created, err := svc.EnsureMasterKey(ctx)
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("Error_KeeperUnreachable", func(t *testing.T) {
		svc := NewKeeperKeyService(&failingKeeper{err: errors.New("dial tcp: refused")})
		_, err := svc.EnsureMasterKey(ctx)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyServiceFailed)
	})
}

func TestKeeperKeyService_DataKeys(t *testing.T) {
	ctx := context.Background()
	svc := NewKeeperKeyService(openTestKeeper(t))
	encCtx := cryptoDomain.DeriveAuthorizationContext([]string{"A", "B"})

	key, err := svc.GenerateDataKey(ctx, encCtx)
	require.NoError(t, err)
	require.Len(t, key.Plaintext, cryptoDomain.DataKeySize)
	assert.NotEmpty(t, key.Ciphertext)
	assert.False(t, bytes.Contains(key.Ciphertext, key.Plaintext))

	t.Run("Success_SameContext", func(t *testing.T) {
		unwrapped, err := svc.UnwrapDataKey(ctx, key.Ciphertext, encCtx)
		require.NoError(t, err)
		assert.Equal(t, key.Plaintext, unwrapped)
	})

	t.Run("Success_ReorderedEntities", func(t *testing.T) {
		reordered := cryptoDomain.DeriveAuthorizationContext([]string{"B", "A"})
		unwrapped, err := svc.UnwrapDataKey(ctx, key.Ciphertext, reordered)
		require.NoError(t, err)
		assert.Equal(t, key.Plaintext, unwrapped)
	})

	t.Run("Error_DifferentContext", func(t *testing.T) {
		other := cryptoDomain.DeriveAuthorizationContext([]string{"C"})
		unwrapped, err := svc.UnwrapDataKey(ctx, key.Ciphertext, other)
		assert.ErrorIs(t, err, cryptoDomain.ErrAuthorizationFailed)
		assert.Nil(t, unwrapped)
	})

	t.Run("Error_SubsetContext", func(t *testing.T) {
		subset := cryptoDomain.DeriveAuthorizationContext([]string{"A"})
		_, err := svc.UnwrapDataKey(ctx, key.Ciphertext, subset)
		assert.ErrorIs(t, err, cryptoDomain.ErrAuthorizationFailed)
	})

	// The local keeper reports a ciphertext it cannot open without a rejection code,
	// so these surface as key service failures.
	t.Run("Error_TamperedCiphertext", func(t *testing.T) {
		unwrapped, err := svc.UnwrapDataKey(ctx, []byte("not a valid ciphertext"), encCtx)
		assert.Error(t, err)
		assert.Nil(t, unwrapped)
	})

	t.Run("Error_OtherKeeper", func(t *testing.T) {
		other := NewKeeperKeyService(openTestKeeper(t))
		unwrapped, err := other.UnwrapDataKey(ctx, key.Ciphertext, encCtx)
		assert.Error(t, err)
		assert.Nil(t, unwrapped)
	})

	t.Run("Success_FreshKeyPerCall", func(t *testing.T) {
		second, err := svc.GenerateDataKey(ctx, encCtx)
		require.NoError(t, err)
		assert.NotEqual(t, key.Plaintext, second.Plaintext)
	})
}

func TestKeeperKeyService_Errors(t *testing.T) {
	ctx := context.Background()
	encCtx := cryptoDomain.DeriveAuthorizationContext([]string{"A"})

	t.Run("Error_GenerateKeeperFails", func(t *testing.T) {
		svc := NewKeeperKeyService(&failingKeeper{err: errors.New("boom")})
		_, err := svc.GenerateDataKey(ctx, encCtx)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyServiceFailed)
	})

	t.Run("Error_GenerateRandomFails", func(t *testing.T) {
		svc := NewKeeperKeyService(openTestKeeper(t))
		svc.random = bytes.NewReader(nil)
		_, err := svc.GenerateDataKey(ctx, encCtx)
		assert.Error(t, err)
	})

	t.Run("Error_UnwrapTransient", func(t *testing.T) {
		svc := NewKeeperKeyService(&failingKeeper{err: context.DeadlineExceeded})
		_, err := svc.UnwrapDataKey(ctx, []byte("x"), encCtx)
		assert.Equal(t, gcerrors.DeadlineExceeded, gcerrors.Code(context.DeadlineExceeded))
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyServiceFailed)
	})

	t.Run("Error_UnwrapUnreachableProvider", func(t *testing.T) {
		svc := NewKeeperKeyService(&failingKeeper{err: errors.New("dial tcp 10.0.0.1:8200: connection refused")})
		unwrapped, err := svc.UnwrapDataKey(ctx, []byte("x"), encCtx)
		assert.Nil(t, unwrapped)
		assert.ErrorIs(t, err, cryptoDomain.ErrKeyServiceFailed)
		assert.NotErrorIs(t, err, cryptoDomain.ErrAuthorizationFailed)
	})

	t.Run("Error_UnwrapMalformedEnvelope", func(t *testing.T) {
		keeper := openTestKeeper(t)
		sealed, err := keeper.Encrypt(ctx, []byte("not json"))
		require.NoError(t, err)

		svc := NewKeeperKeyService(keeper)
		_, err = svc.UnwrapDataKey(ctx, sealed, encCtx)
		assert.ErrorIs(t, err, cryptoDomain.ErrAuthorizationFailed)
	})
}

func TestKeeperKeyService_Close(t *testing.T) {
	keeper, err := OpenKeeper(context.Background(), generateLocalSecretsURI(t))
	require.NoError(t, err)

	svc := NewKeeperKeyService(keeper)
	require.NoError(t, svc.Close())

	_, err = svc.GenerateDataKey(context.Background(), cryptoDomain.DeriveAuthorizationContext([]string{"app"}))
	assert.ErrorIs(t, err, cryptoDomain.ErrKeyServiceFailed)
}
