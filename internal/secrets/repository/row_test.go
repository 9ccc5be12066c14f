package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/kaurna/internal/crypto/domain"
	secretsDomain "github.com/allisson/kaurna/internal/secrets/domain"
)

func newTestSecret() secretsDomain.Secret {
	return secretsDomain.Secret{
		Name:                "password",
		Version:             1,
		EncryptedSecret:     "kYSYMMqlQaVoUlXwmKUNLXSY4J8XzrGgkV2iU1DSgM3J+ebbf5ifZE6tRKNZ6X+9",
		EncryptedDataKey:    []byte("wrapped-data-key"),
		EncryptionContext:   cryptoDomain.DeriveAuthorizationContext([]string{"B", "A"}),
		AuthorizedEntities:  []string{"B", "A"},
		CreateDate:          1700000000,
		LastDataKeyRotation: 1700000100,
	}
}

func TestFromSecret(t *testing.T) {
	row, err := FromSecret(newTestSecret())
	require.NoError(t, err)

	assert.Equal(t, "password", row.SecretName)
	assert.Equal(t, uint(1), row.SecretVersion)
	assert.Equal(t, "d3JhcHBlZC1kYXRhLWtleQ==", row.EncryptedDataKey)
	assert.Equal(t, `{"A":"kaurna","B":"kaurna"}`, row.EncryptionContext)
	assert.Equal(t, `["B","A"]`, row.AuthorizedEntities)
	assert.Equal(t, int64(1700000000), row.CreateDate)
	assert.False(t, row.Deprecated)
}

func TestFromSecret_EmptyCollections(t *testing.T) {
	row, err := FromSecret(secretsDomain.Secret{Name: "password", Version: 1})
	require.NoError(t, err)
	assert.Equal(t, "{}", row.EncryptionContext)
	assert.Equal(t, "[]", row.AuthorizedEntities)
}

func TestRow_ToSecret(t *testing.T) {
	t.Run("Success_RoundTrip", func(t *testing.T) {
		original := newTestSecret()
		row, err := FromSecret(original)
		require.NoError(t, err)

		secret, err := row.ToSecret()
		require.NoError(t, err)
		assert.Equal(t, original, secret)
	})

	t.Run("Success_ProjectedRow", func(t *testing.T) {
		secret, err := Row{SecretName: "password", SecretVersion: 3, Deprecated: true}.ToSecret()
		require.NoError(t, err)
		assert.Equal(t, "password", secret.Name)
		assert.Nil(t, secret.EncryptedDataKey)
		assert.Nil(t, secret.EncryptionContext)
		assert.True(t, secret.Deprecated)
	})

	t.Run("Error_BadDataKey", func(t *testing.T) {
		_, err := Row{EncryptedDataKey: "%%%"}.ToSecret()
		assert.Error(t, err)
	})

	t.Run("Error_BadContext", func(t *testing.T) {
		_, err := Row{EncryptionContext: "[1,2]"}.ToSecret()
		assert.Error(t, err)
	})

	t.Run("Error_BadEntities", func(t *testing.T) {
		_, err := Row{AuthorizedEntities: "{"}.ToSecret()
		assert.Error(t, err)
	})
}

func TestProjectFields(t *testing.T) {
	assert.Equal(t, secretsDomain.AllFields, projectFields(nil))
	assert.Equal(t,
		[]string{"secret_name", "secret_version", "deprecated"},
		projectFields([]string{"deprecated", "secret_name"}),
	)
	assert.Equal(t,
		[]string{"secret_name", "secret_version"},
		projectFields([]string{"password; DROP TABLE secrets"}),
	)
}
