package usecase

import (
	"context"
	"time"

	"github.com/allisson/kaurna/internal/metrics"
	secretsDomain "github.com/allisson/kaurna/internal/secrets/domain"
)

// secretUseCaseWithMetrics decorates SecretUseCase with metrics instrumentation.
type secretUseCaseWithMetrics struct {
	next    SecretUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretUseCaseWithMetrics wraps a SecretUseCase with metrics recording.
func NewSecretUseCaseWithMetrics(useCase SecretUseCase, m metrics.BusinessMetrics) SecretUseCase {
	return &secretUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits the operation counter and duration histogram for one call.
func (s *secretUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusOf(err)
	s.metrics.RecordOperation(ctx, metrics.DomainSecrets, operation, status)
	s.metrics.RecordDuration(ctx, metrics.DomainSecrets, operation, time.Since(start), status)
}

// Setup records metrics for setup operations.
func (s *secretUseCaseWithMetrics) Setup(
	ctx context.Context,
	readCapacity, writeCapacity int64,
) (*secretsDomain.SetupResult, error) {
	start := time.Now()
	result, err := s.next.Setup(ctx, readCapacity, writeCapacity)
	s.record(ctx, "secret_setup", start, err)
	return result, err
}

// LoadAllEntries records metrics for raw record loads.
func (s *secretUseCaseWithMetrics) LoadAllEntries(
	ctx context.Context,
	name string,
	version uint,
	fields ...string,
) ([]secretsDomain.Secret, error) {
	start := time.Now()
	entries, err := s.next.LoadAllEntries(ctx, name, version, fields...)
	s.record(ctx, "secret_load", start, err)
	return entries, err
}

// StoreSecret records metrics for secret store operations.
func (s *secretUseCaseWithMetrics) StoreSecret(
	ctx context.Context,
	secret []byte,
	name string,
	version uint,
	authorizedEntities []string,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	stored, err := s.next.StoreSecret(ctx, secret, name, version, authorizedEntities)
	s.record(ctx, "secret_store", start, err)
	return stored, err
}

// GetSecret records metrics for secret retrieval operations.
func (s *secretUseCaseWithMetrics) GetSecret(ctx context.Context, name string, version uint) ([]byte, error) {
	start := time.Now()
	plaintext, err := s.next.GetSecret(ctx, name, version)
	s.record(ctx, "secret_get", start, err)
	return plaintext, err
}

// DescribeSecrets records metrics for describe operations.
func (s *secretUseCaseWithMetrics) DescribeSecrets(
	ctx context.Context,
	name string,
	version uint,
) (secretsDomain.Description, error) {
	start := time.Now()
	desc, err := s.next.DescribeSecrets(ctx, name, version)
	s.record(ctx, "secret_describe", start, err)
	return desc, err
}

// RotateDataKeys records metrics for data key rotations.
func (s *secretUseCaseWithMetrics) RotateDataKeys(ctx context.Context, name string, version uint) error {
	start := time.Now()
	err := s.next.RotateDataKeys(ctx, name, version)
	s.record(ctx, "secret_rotate", start, err)
	return err
}

// UpdateSecrets records metrics for authorization updates.
func (s *secretUseCaseWithMetrics) UpdateSecrets(
	ctx context.Context,
	name string,
	version uint,
	authorizedEntities []string,
) error {
	start := time.Now()
	err := s.next.UpdateSecrets(ctx, name, version, authorizedEntities)
	s.record(ctx, "secret_update", start, err)
	return err
}

// DeprecateSecrets records metrics for deprecations.
func (s *secretUseCaseWithMetrics) DeprecateSecrets(ctx context.Context, name string, version uint) error {
	start := time.Now()
	err := s.next.DeprecateSecrets(ctx, name, version)
	s.record(ctx, "secret_deprecate", start, err)
	return err
}

// ActivateSecrets records metrics for activations.
func (s *secretUseCaseWithMetrics) ActivateSecrets(ctx context.Context, name string, version uint) error {
	start := time.Now()
	err := s.next.ActivateSecrets(ctx, name, version)
	s.record(ctx, "secret_activate", start, err)
	return err
}

// EraseSecret records metrics for secret deletion operations.
func (s *secretUseCaseWithMetrics) EraseSecret(ctx context.Context, name string, version uint) error {
	start := time.Now()
	err := s.next.EraseSecret(ctx, name, version)
	s.record(ctx, "secret_erase", start, err)
	return err
}

// EraseAllTheThings records metrics for whole-table erasure.
func (s *secretUseCaseWithMetrics) EraseAllTheThings(ctx context.Context, seriously bool) error {
	start := time.Now()
	err := s.next.EraseAllTheThings(ctx, seriously)
	s.record(ctx, "secret_erase_all", start, err)
	return err
}
