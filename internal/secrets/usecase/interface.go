// Package usecase defines the interfaces and implementations for secret management use cases.
// The secret engine orchestrates the record store, the master-key service and the local
// cipher to store, read, rotate, authorize, deprecate and erase versioned secrets.
package usecase

import (
	"context"

	secretsDomain "github.com/allisson/kaurna/internal/secrets/domain"
)

// SecretRepository defines the record store operations for secret versions.
type SecretRepository interface {
	// EnsureTable creates the secrets table unless it already exists.
	EnsureTable(ctx context.Context, readCapacity, writeCapacity int64) error
	// Query returns every version of name, or only version when it is non-zero.
	Query(ctx context.Context, name string, version uint, fields ...string) ([]secretsDomain.Secret, error)
	// Scan returns every record in the table.
	Scan(ctx context.Context, fields ...string) ([]secretsDomain.Secret, error)
	// Put creates or overwrites a record.
	Put(ctx context.Context, secret secretsDomain.Secret) error
	// Delete removes a record.
	Delete(ctx context.Context, secret secretsDomain.Secret) error
	// DropTable destroys the table and every record in it.
	DropTable(ctx context.Context) error
}

// SecretUseCase defines the interface for secret management business logic.
//
// An empty name and a zero version mean "not given". Multi-record operations apply each
// record's change independently: a failure stops the call, and records already written
// stay written. Re-running rotate, update, deprecate or activate is safe.
type SecretUseCase interface {
	// Setup ensures the master key and the secrets table exist.
	Setup(ctx context.Context, readCapacity, writeCapacity int64) (*secretsDomain.SetupResult, error)

	// LoadAllEntries returns the records matching name and version, or every record when
	// neither is given. A version without a name fails with ErrVersionWithoutName.
	LoadAllEntries(ctx context.Context, name string, version uint, fields ...string) ([]secretsDomain.Secret, error)

	// StoreSecret encrypts secret under a fresh data key and stores it as a new version
	// of name. A zero version picks 1 + the highest stored version.
	StoreSecret(
		ctx context.Context,
		secret []byte,
		name string,
		version uint,
		authorizedEntities []string,
	) (*secretsDomain.Secret, error)

	// GetSecret decrypts version of name, or the highest non-deprecated version when
	// version is zero.
	//
	// Security Note: callers MUST zero the returned plaintext after use by calling
	// cryptoDomain.Zero.
	GetSecret(ctx context.Context, name string, version uint) ([]byte, error)

	// DescribeSecrets returns ciphertext-free metadata grouped by name and version.
	DescribeSecrets(ctx context.Context, name string, version uint) (secretsDomain.Description, error)

	// RotateDataKeys re-encrypts every matching record under a new data key.
	RotateDataKeys(ctx context.Context, name string, version uint) error

	// UpdateSecrets replaces the authorized entities of every matching record and
	// re-encrypts it under a data key bound to them.
	UpdateSecrets(ctx context.Context, name string, version uint, authorizedEntities []string) error

	// DeprecateSecrets excludes every matching record from latest-version resolution.
	DeprecateSecrets(ctx context.Context, name string, version uint) error

	// ActivateSecrets reverses DeprecateSecrets.
	ActivateSecrets(ctx context.Context, name string, version uint) error

	// EraseSecret deletes every matching record. A name is required.
	EraseSecret(ctx context.Context, name string, version uint) error

	// EraseAllTheThings drops the whole table, but only when seriously is true.
	EraseAllTheThings(ctx context.Context, seriously bool) error
}
