// Package domain defines the core domain models and types for secret management.
// Every secret is a set of immutable versions; each version is protected by its own
// data key (envelope encryption) bound to the entities allowed to read it.
package domain

import (
	"maps"
	"slices"

	cryptoDomain "github.com/allisson/kaurna/internal/crypto/domain"
)

// Record field names, shared by every record store and by projections.
const (
	FieldSecretName          = "secret_name"
	FieldSecretVersion       = "secret_version"
	FieldEncryptedSecret     = "encrypted_secret"
	FieldEncryptedDataKey    = "encrypted_data_key"
	FieldEncryptionContext   = "encryption_context"
	FieldAuthorizedEntities  = "authorized_entities"
	FieldCreateDate          = "create_date"
	FieldLastDataKeyRotation = "last_data_key_rotation"
	FieldDeprecated          = "deprecated"
)

// AllFields lists every record field in storage order.
var AllFields = []string{
	FieldSecretName,
	FieldSecretVersion,
	FieldEncryptedSecret,
	FieldEncryptedDataKey,
	FieldEncryptionContext,
	FieldAuthorizedEntities,
	FieldCreateDate,
	FieldLastDataKeyRotation,
	FieldDeprecated,
}

// MetadataFields lists the fields needed to describe a secret without its ciphertext.
var MetadataFields = []string{
	FieldSecretName,
	FieldSecretVersion,
	FieldAuthorizedEntities,
	FieldCreateDate,
	FieldLastDataKeyRotation,
	FieldDeprecated,
}

// Secret is one stored version of a named secret.
type Secret struct {
	// Name is the partition key; immutable once created.
	Name string
	// Version is the sort key, unique and positive per Name.
	Version uint
	// EncryptedSecret is base64(IV || AES-CBC ciphertext).
	EncryptedSecret string
	// EncryptedDataKey is the data key as wrapped by the master-key service.
	EncryptedDataKey []byte
	// EncryptionContext is always DeriveAuthorizationContext(AuthorizedEntities).
	EncryptionContext cryptoDomain.EncryptionContext
	// AuthorizedEntities lists the entities allowed to unwrap the data key, in caller order.
	AuthorizedEntities []string
	// CreateDate is a Unix timestamp in seconds, set once at creation.
	CreateDate int64
	// LastDataKeyRotation is a Unix timestamp in seconds, set at creation and on every rotation.
	LastDataKeyRotation int64
	// Deprecated excludes the version from latest-version resolution.
	Deprecated bool
}

// Clone returns a deep copy, so callers can change a loaded record before putting it back.
func (s Secret) Clone() Secret {
	out := s
	out.EncryptedDataKey = slices.Clone(s.EncryptedDataKey)
	out.AuthorizedEntities = slices.Clone(s.AuthorizedEntities)
	out.EncryptionContext = maps.Clone(s.EncryptionContext)
	return out
}

// Latest returns the highest non-deprecated version among secrets.
func Latest(secrets []Secret) (Secret, bool) {
	var latest Secret
	found := false
	for _, s := range secrets {
		if s.Deprecated {
			continue
		}
		if !found || s.Version > latest.Version {
			latest = s
			found = true
		}
	}
	return latest, found
}

// NextVersion returns 1 + the highest version among secrets, or 1 when there are none.
func NextVersion(secrets []Secret) uint {
	var highest uint
	for _, s := range secrets {
		highest = max(highest, s.Version)
	}
	return highest + 1
}

// SetupResult reports what Setup had to create.
type SetupResult struct {
	MasterKeyCreated bool `json:"master_key_created"`
}
