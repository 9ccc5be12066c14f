// Package repository implements record stores for secret versions: DynamoDB, PostgreSQL
// and MySQL. Every store keeps one flat record per (secret_name, secret_version).
package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"

	cryptoDomain "github.com/allisson/kaurna/internal/crypto/domain"
	secretsDomain "github.com/allisson/kaurna/internal/secrets/domain"
)

// SchemaMigrator creates and drops the SQL secrets table.
type SchemaMigrator interface {
	Up(ctx context.Context) error
	Down(ctx context.Context) error
}

// Row is the storage representation of a secretsDomain.Secret. Structured fields are
// serialized to strings: the encryption context as a JSON object, the authorized
// entities as a JSON array and the wrapped data key as standard base64.
type Row struct {
	SecretName          string `dynamodbav:"secret_name"`
	SecretVersion       uint   `dynamodbav:"secret_version"`
	EncryptedSecret     string `dynamodbav:"encrypted_secret,omitempty"`
	EncryptedDataKey    string `dynamodbav:"encrypted_data_key,omitempty"`
	EncryptionContext   string `dynamodbav:"encryption_context,omitempty"`
	AuthorizedEntities  string `dynamodbav:"authorized_entities,omitempty"`
	CreateDate          int64  `dynamodbav:"create_date"`
	LastDataKeyRotation int64  `dynamodbav:"last_data_key_rotation"`
	Deprecated          bool   `dynamodbav:"deprecated"`
}

// FromSecret serializes a secret into a Row.
func FromSecret(secret secretsDomain.Secret) (Row, error) {
	encCtx := secret.EncryptionContext
	if encCtx == nil {
		encCtx = cryptoDomain.EncryptionContext{}
	}
	contextJSON, err := json.Marshal(encCtx)
	if err != nil {
		return Row{}, fmt.Errorf("failed to encode encryption context: %w", err)
	}

	entities := secret.AuthorizedEntities
	if entities == nil {
		entities = []string{}
	}
	entitiesJSON, err := json.Marshal(entities)
	if err != nil {
		return Row{}, fmt.Errorf("failed to encode authorized entities: %w", err)
	}

	return Row{
		SecretName:          secret.Name,
		SecretVersion:       secret.Version,
		EncryptedSecret:     secret.EncryptedSecret,
		EncryptedDataKey:    base64.StdEncoding.EncodeToString(secret.EncryptedDataKey),
		EncryptionContext:   string(contextJSON),
		AuthorizedEntities:  string(entitiesJSON),
		CreateDate:          secret.CreateDate,
		LastDataKeyRotation: secret.LastDataKeyRotation,
		Deprecated:          secret.Deprecated,
	}, nil
}

// ToSecret deserializes a Row. Fields left empty by a projection stay zero.
func (r Row) ToSecret() (secretsDomain.Secret, error) {
	secret := secretsDomain.Secret{
		Name:                r.SecretName,
		Version:             r.SecretVersion,
		EncryptedSecret:     r.EncryptedSecret,
		CreateDate:          r.CreateDate,
		LastDataKeyRotation: r.LastDataKeyRotation,
		Deprecated:          r.Deprecated,
	}

	if r.EncryptedDataKey != "" {
		key, err := base64.StdEncoding.DecodeString(r.EncryptedDataKey)
		if err != nil {
			return secretsDomain.Secret{}, fmt.Errorf("failed to decode encrypted data key: %w", err)
		}
		secret.EncryptedDataKey = key
	}
	if r.EncryptionContext != "" {
		if err := json.Unmarshal([]byte(r.EncryptionContext), &secret.EncryptionContext); err != nil {
			return secretsDomain.Secret{}, fmt.Errorf("failed to decode encryption context: %w", err)
		}
	}
	if r.AuthorizedEntities != "" {
		if err := json.Unmarshal([]byte(r.AuthorizedEntities), &secret.AuthorizedEntities); err != nil {
			return secretsDomain.Secret{}, fmt.Errorf("failed to decode authorized entities: %w", err)
		}
	}

	return secret, nil
}

// projectFields returns the requested fields in storage order, always including the
// key fields. Unknown names are ignored; no fields means every field.
func projectFields(fields []string) []string {
	if len(fields) == 0 {
		return secretsDomain.AllFields
	}
	out := make([]string, 0, len(secretsDomain.AllFields))
	for _, f := range secretsDomain.AllFields {
		isKey := f == secretsDomain.FieldSecretName || f == secretsDomain.FieldSecretVersion
		if isKey || slices.Contains(fields, f) {
			out = append(out, f)
		}
	}
	return out
}

// rowTargets returns scan destinations in the order of columns.
func rowTargets(row *Row, columns []string) []any {
	targets := make([]any, 0, len(columns))
	for _, c := range columns {
		switch c {
		case secretsDomain.FieldSecretName:
			targets = append(targets, &row.SecretName)
		case secretsDomain.FieldSecretVersion:
			targets = append(targets, &row.SecretVersion)
		case secretsDomain.FieldEncryptedSecret:
			targets = append(targets, &row.EncryptedSecret)
		case secretsDomain.FieldEncryptedDataKey:
			targets = append(targets, &row.EncryptedDataKey)
		case secretsDomain.FieldEncryptionContext:
			targets = append(targets, &row.EncryptionContext)
		case secretsDomain.FieldAuthorizedEntities:
			targets = append(targets, &row.AuthorizedEntities)
		case secretsDomain.FieldCreateDate:
			targets = append(targets, &row.CreateDate)
		case secretsDomain.FieldLastDataKeyRotation:
			targets = append(targets, &row.LastDataKeyRotation)
		case secretsDomain.FieldDeprecated:
			targets = append(targets, &row.Deprecated)
		}
	}
	return targets
}

// storeError wraps err as a record store failure.
func storeError(action string, err error) error {
	return fmt.Errorf("%w: failed to %s: %w", secretsDomain.ErrRecordStoreFailed, action, err)
}
