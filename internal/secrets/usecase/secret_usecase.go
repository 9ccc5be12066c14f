// Package usecase implements business logic orchestration for secret management.
// This package coordinates the master-key service, the record store and the local
// cipher to implement envelope-encrypted, versioned secret storage.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	validation "github.com/jellydator/validation"

	cryptoDomain "github.com/allisson/kaurna/internal/crypto/domain"
	cryptoService "github.com/allisson/kaurna/internal/crypto/service"
	secretsDomain "github.com/allisson/kaurna/internal/secrets/domain"
	customValidation "github.com/allisson/kaurna/internal/validation"
)

// Option configures a secretUseCase.
type Option func(*secretUseCase)

// WithClock replaces the time source used for create and rotation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *secretUseCase) {
		s.now = now
	}
}

// secretUseCase implements the SecretUseCase interface for managing secrets.
type secretUseCase struct {
	secretRepo SecretRepository
	keyService cryptoService.KeyService
	cipher     cryptoService.Cipher
	logger     *slog.Logger
	now        func() time.Time
}

// NewSecretUseCase creates a new secret engine.
func NewSecretUseCase(
	secretRepo SecretRepository,
	keyService cryptoService.KeyService,
	cipher cryptoService.Cipher,
	logger *slog.Logger,
	opts ...Option,
) SecretUseCase {
	s := &secretUseCase{
		secretRepo: secretRepo,
		keyService: keyService,
		cipher:     cipher,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Setup ensures the master key exists, then the table.
func (s *secretUseCase) Setup(
	ctx context.Context,
	readCapacity, writeCapacity int64,
) (*secretsDomain.SetupResult, error) {
	created, err := s.keyService.EnsureMasterKey(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.secretRepo.EnsureTable(ctx, readCapacity, writeCapacity); err != nil {
		return nil, err
	}

	s.logger.Info("setup completed", slog.Bool("master_key_created", created))
	return &secretsDomain.SetupResult{MasterKeyCreated: created}, nil
}

// LoadAllEntries dispatches to Query or Scan depending on the filters given.
func (s *secretUseCase) LoadAllEntries(
	ctx context.Context,
	name string,
	version uint,
	fields ...string,
) ([]secretsDomain.Secret, error) {
	if version > 0 && name == "" {
		return nil, secretsDomain.ErrVersionWithoutName
	}
	if name == "" {
		return s.secretRepo.Scan(ctx, fields...)
	}
	return s.secretRepo.Query(ctx, name, version, fields...)
}

// StoreSecret stores secret as a new version of name.
func (s *secretUseCase) StoreSecret(
	ctx context.Context,
	secret []byte,
	name string,
	version uint,
	authorizedEntities []string,
) (*secretsDomain.Secret, error) {
	err := validation.Errors{
		"secret":              validation.Validate(secret, validation.Required),
		"name":                validation.Validate(name, validation.Required, customValidation.SecretName),
		"authorized_entities": validateEntities(authorizedEntities),
	}.Filter()
	if err != nil {
		return nil, invalidArgument(err)
	}

	existing, err := s.LoadAllEntries(ctx, name, 0, secretsDomain.FieldSecretName, secretsDomain.FieldSecretVersion)
	if err != nil {
		return nil, err
	}

	if version > 0 {
		taken := slices.ContainsFunc(existing, func(e secretsDomain.Secret) bool {
			return e.Version == version
		})
		if taken {
			return nil, fmt.Errorf("%w: %s version %d", secretsDomain.ErrVersionConflict, name, version)
		}
	} else {
		version = secretsDomain.NextVersion(existing)
	}

	entities := slices.Clone(authorizedEntities)
	if entities == nil {
		entities = []string{}
	}
	encryptionContext := cryptoDomain.DeriveAuthorizationContext(entities)

	dataKey, err := s.keyService.GenerateDataKey(ctx, encryptionContext)
	if err != nil {
		return nil, err
	}
	defer dataKey.Zero()

	ciphertext, err := s.cipher.Encrypt(secret, dataKey.Plaintext, nil)
	if err != nil {
		return nil, err
	}

	now := s.now().Unix()
	record := secretsDomain.Secret{
		Name:                name,
		Version:             version,
		EncryptedSecret:     ciphertext,
		EncryptedDataKey:    dataKey.Ciphertext,
		EncryptionContext:   encryptionContext,
		AuthorizedEntities:  entities,
		CreateDate:          now,
		LastDataKeyRotation: now,
		Deprecated:          false,
	}
	if err := s.secretRepo.Put(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("secret stored",
		slog.String("name", name),
		slog.Uint64("version", uint64(version)),
		slog.Int("authorized_entities", len(entities)),
	)
	return &record, nil
}

// GetSecret decrypts the selected version of name.
func (s *secretUseCase) GetSecret(ctx context.Context, name string, version uint) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", secretsDomain.ErrInvalidArgument)
	}

	entries, err := s.LoadAllEntries(ctx, name, version)
	if err != nil {
		return nil, err
	}

	var selected secretsDomain.Secret
	if version > 0 {
		idx := slices.IndexFunc(entries, func(e secretsDomain.Secret) bool { return e.Version == version })
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s version %d", secretsDomain.ErrSecretNotFound, name, version)
		}
		selected = entries[idx]
	} else {
		latest, ok := secretsDomain.Latest(entries)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no active version", secretsDomain.ErrSecretNotFound, name)
		}
		selected = latest
	}

	plaintext, err := s.open(ctx, selected)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("secret read",
		slog.String("name", name),
		slog.Uint64("version", uint64(selected.Version)),
	)
	return plaintext, nil
}

// DescribeSecrets loads matching records without ciphertext fields and groups them.
func (s *secretUseCase) DescribeSecrets(
	ctx context.Context,
	name string,
	version uint,
) (secretsDomain.Description, error) {
	entries, err := s.LoadAllEntries(ctx, name, version, secretsDomain.MetadataFields...)
	if err != nil {
		return nil, err
	}
	return secretsDomain.Describe(entries), nil
}

// RotateDataKeys re-envelopes every matching record.
func (s *secretUseCase) RotateDataKeys(ctx context.Context, name string, version uint) error {
	if err := validateFilter(name); err != nil {
		return err
	}
	entries, err := s.LoadAllEntries(ctx, name, version)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := s.reEnvelope(ctx, entry); err != nil {
			return err
		}
	}

	s.logger.Info("data keys rotated",
		slog.String("name", name),
		slog.Uint64("version", uint64(version)),
		slog.Int("count", len(entries)),
	)
	return nil
}

// UpdateSecrets authorizes a new entity list on every matching record.
func (s *secretUseCase) UpdateSecrets(
	ctx context.Context,
	name string,
	version uint,
	authorizedEntities []string,
) error {
	err := validation.Errors{
		"name":                validation.Validate(name, customValidation.SecretName),
		"authorized_entities": validateEntities(authorizedEntities),
	}.Filter()
	if err != nil {
		return invalidArgument(err)
	}

	entries, err := s.LoadAllEntries(ctx, name, version)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		updated := entry.Clone()
		updated.AuthorizedEntities = slices.Clone(authorizedEntities)
		if updated.AuthorizedEntities == nil {
			updated.AuthorizedEntities = []string{}
		}
		if err := s.reEnvelope(ctx, updated); err != nil {
			return err
		}
	}

	s.logger.Info("authorized entities updated",
		slog.String("name", name),
		slog.Uint64("version", uint64(version)),
		slog.Int("count", len(entries)),
	)
	return nil
}

// DeprecateSecrets marks every matching record deprecated.
func (s *secretUseCase) DeprecateSecrets(ctx context.Context, name string, version uint) error {
	return s.setDeprecated(ctx, name, version, true)
}

// ActivateSecrets clears the deprecated flag on every matching record.
func (s *secretUseCase) ActivateSecrets(ctx context.Context, name string, version uint) error {
	return s.setDeprecated(ctx, name, version, false)
}

// EraseSecret deletes every matching record.
func (s *secretUseCase) EraseSecret(ctx context.Context, name string, version uint) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", secretsDomain.ErrInvalidArgument)
	}

	entries, err := s.LoadAllEntries(
		ctx,
		name,
		version,
		secretsDomain.FieldSecretName,
		secretsDomain.FieldSecretVersion,
	)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := s.secretRepo.Delete(ctx, entry); err != nil {
			return err
		}
	}

	s.logger.Info("secrets erased",
		slog.String("name", name),
		slog.Uint64("version", uint64(version)),
		slog.Int("count", len(entries)),
	)
	return nil
}

// EraseAllTheThings drops the table when seriously is true and does nothing otherwise.
func (s *secretUseCase) EraseAllTheThings(ctx context.Context, seriously bool) error {
	if !seriously {
		s.logger.Warn("erase all the things refused without confirmation")
		return nil
	}

	if err := s.secretRepo.DropTable(ctx); err != nil {
		return err
	}

	s.logger.Warn("secrets table dropped")
	return nil
}

func (s *secretUseCase) setDeprecated(ctx context.Context, name string, version uint, deprecated bool) error {
	if err := validateFilter(name); err != nil {
		return err
	}
	entries, err := s.LoadAllEntries(ctx, name, version)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		updated := entry.Clone()
		updated.Deprecated = deprecated
		if err := s.secretRepo.Put(ctx, updated); err != nil {
			return err
		}
	}

	s.logger.Info("secrets deprecation changed",
		slog.String("name", name),
		slog.Uint64("version", uint64(version)),
		slog.Bool("deprecated", deprecated),
		slog.Int("count", len(entries)),
	)
	return nil
}

// open unwraps the data key of secret under its stored context and decrypts it.
func (s *secretUseCase) open(ctx context.Context, secret secretsDomain.Secret) ([]byte, error) {
	key, err := s.keyService.UnwrapDataKey(ctx, secret.EncryptedDataKey, secret.EncryptionContext)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	return s.cipher.Decrypt(secret.EncryptedSecret, key)
}

// reEnvelope decrypts secret with its current data key and stores it again under a new
// data key bound to the context derived from its authorized entities.
func (s *secretUseCase) reEnvelope(ctx context.Context, secret secretsDomain.Secret) error {
	plaintext, err := s.open(ctx, secret)
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(plaintext)

	updated := secret.Clone()
	updated.EncryptionContext = cryptoDomain.DeriveAuthorizationContext(updated.AuthorizedEntities)

	dataKey, err := s.keyService.GenerateDataKey(ctx, updated.EncryptionContext)
	if err != nil {
		return err
	}
	defer dataKey.Zero()

	ciphertext, err := s.cipher.Encrypt(plaintext, dataKey.Plaintext, nil)
	if err != nil {
		return err
	}

	updated.EncryptedSecret = ciphertext
	updated.EncryptedDataKey = dataKey.Ciphertext
	updated.LastDataKeyRotation = s.now().Unix()

	return s.secretRepo.Put(ctx, updated)
}

// validateFilter checks an optional name filter.
func validateFilter(name string) error {
	if err := validation.Validate(name, customValidation.SecretName); err != nil {
		return invalidArgument(validation.Errors{"name": err})
	}
	return nil
}

func validateEntities(entities []string) error {
	return validation.Validate(entities, validation.Each(validation.Required, customValidation.SecretName))
}

func invalidArgument(err error) error {
	return fmt.Errorf("%w: %w", secretsDomain.ErrInvalidArgument, err)
}
