package dto

import (
	secretsDomain "github.com/allisson/kaurna/internal/secrets/domain"
)

// SecretMetadataResponse describes a stored version without any ciphertext.
type SecretMetadataResponse struct {
	Name                string   `json:"name"`
	Version             uint     `json:"version"`
	CreateDate          int64    `json:"create_date"`
	LastDataKeyRotation int64    `json:"last_data_key_rotation"`
	AuthorizedEntities  []string `json:"authorized_entities"`
	Deprecated          bool     `json:"deprecated"`
}

// SecretValueResponse carries a decrypted secret.
// SECURITY: Value is plaintext and must be transmitted over HTTPS in production.
type SecretValueResponse struct {
	Name    string `json:"name"`
	Version uint   `json:"version,omitempty"`
	Value   []byte `json:"value"`
}

// MapSecretToMetadataResponse converts a stored record to its public metadata.
func MapSecretToMetadataResponse(secret *secretsDomain.Secret) SecretMetadataResponse {
	entities := secret.AuthorizedEntities
	if entities == nil {
		entities = []string{}
	}
	return SecretMetadataResponse{
		Name:                secret.Name,
		Version:             secret.Version,
		CreateDate:          secret.CreateDate,
		LastDataKeyRotation: secret.LastDataKeyRotation,
		AuthorizedEntities:  entities,
		Deprecated:          secret.Deprecated,
	}
}

// MapPlaintextToValueResponse wraps plaintext for GET responses. Version is zero when
// the latest version was requested. SECURITY: Caller must zero plaintext after the
// response is written.
func MapPlaintextToValueResponse(name string, version uint, plaintext []byte) SecretValueResponse {
	return SecretValueResponse{
		Name:    name,
		Version: version,
		Value:   plaintext,
	}
}
