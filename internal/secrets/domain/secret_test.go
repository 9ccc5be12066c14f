package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/kaurna/internal/crypto/domain"
	"github.com/allisson/kaurna/internal/errors"
)

func TestSecret_Clone(t *testing.T) {
	original := Secret{
		Name:               "password",
		Version:            1,
		EncryptedDataKey:   []byte("wrapped"),
		AuthorizedEntities: []string{"A", "B"},
		EncryptionContext:  cryptoDomain.DeriveAuthorizationContext([]string{"A", "B"}),
	}

	clone := original.Clone()
	clone.AuthorizedEntities[0] = "C"
	clone.EncryptedDataKey[0] = 'X'
	clone.EncryptionContext["C"] = cryptoDomain.ContextMarker
	clone.Deprecated = true

	assert.Equal(t, []string{"A", "B"}, original.AuthorizedEntities)
	assert.Equal(t, []byte("wrapped"), original.EncryptedDataKey)
	assert.NotContains(t, original.EncryptionContext, "C")
	assert.False(t, original.Deprecated)
}

func TestLatest(t *testing.T) {
	t.Run("Success_SkipsDeprecated", func(t *testing.T) {
		latest, ok := Latest([]Secret{
			{Version: 1},
			{Version: 3, Deprecated: true},
			{Version: 2},
		})
		require.True(t, ok)
		assert.Equal(t, uint(2), latest.Version)
	})

	t.Run("Error_AllDeprecated", func(t *testing.T) {
		_, ok := Latest([]Secret{{Version: 1, Deprecated: true}})
		assert.False(t, ok)
	})

	t.Run("Error_Empty", func(t *testing.T) {
		_, ok := Latest(nil)
		assert.False(t, ok)
	})
}

func TestNextVersion(t *testing.T) {
	assert.Equal(t, uint(1), NextVersion(nil))
	assert.Equal(t, uint(5), NextVersion([]Secret{{Version: 1}, {Version: 2}, {Version: 4}}))
	assert.Equal(t, uint(5), NextVersion([]Secret{{Version: 4}, {Version: 1}}))
}

func TestDescribe(t *testing.T) {
	desc := Describe([]Secret{
		{
			Name:                "password",
			Version:             1,
			EncryptedSecret:     "ciphertext",
			AuthorizedEntities:  []string{"A", "B"},
			CreateDate:          100,
			LastDataKeyRotation: 200,
		},
		{Name: "password", Version: 2, Deprecated: true},
		{Name: "token", Version: 1, AuthorizedEntities: []string{"C"}},
	})

	require.Len(t, desc, 2)
	require.Len(t, desc["password"], 2)
	assert.Equal(t, Metadata{
		CreateDate:          100,
		LastDataKeyRotation: 200,
		AuthorizedEntities:  []string{"A", "B"},
	}, desc["password"][1])
	assert.True(t, desc["password"][2].Deprecated)
	assert.Equal(t, []string{}, desc["password"][2].AuthorizedEntities)
	assert.Equal(t, []string{"C"}, desc["token"][1].AuthorizedEntities)
}

func TestErrors(t *testing.T) {
	assert.True(t, errors.Is(ErrVersionWithoutName, ErrInvalidArgument))
	assert.True(t, errors.Is(ErrVersionWithoutName, errors.ErrInvalidInput))
	assert.True(t, errors.Is(ErrVersionConflict, errors.ErrConflict))
	assert.True(t, errors.Is(ErrSecretNotFound, errors.ErrNotFound))
	assert.True(t, errors.Is(ErrRecordStoreFailed, errors.ErrUnavailable))
}
