package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	secretsDomain "github.com/allisson/kaurna/internal/secrets/domain"
)

// MockSecretUseCase is a mock implementation of SecretUseCase for testing.
type MockSecretUseCase struct {
	mock.Mock
}

// NewMockSecretUseCase creates a mock that asserts its expectations on cleanup.
func NewMockSecretUseCase(t *testing.T) *MockSecretUseCase {
	m := &MockSecretUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Setup mocks the Setup method.
func (m *MockSecretUseCase) Setup(
	ctx context.Context,
	readCapacity, writeCapacity int64,
) (*secretsDomain.SetupResult, error) {
	args := m.Called(ctx, readCapacity, writeCapacity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.SetupResult), args.Error(1)
}

// LoadAllEntries mocks the LoadAllEntries method.
func (m *MockSecretUseCase) LoadAllEntries(
	ctx context.Context,
	name string,
	version uint,
	fields ...string,
) ([]secretsDomain.Secret, error) {
	args := m.Called(ctx, name, version, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]secretsDomain.Secret), args.Error(1)
}

// StoreSecret mocks the StoreSecret method.
func (m *MockSecretUseCase) StoreSecret(
	ctx context.Context,
	secret []byte,
	name string,
	version uint,
	authorizedEntities []string,
) (*secretsDomain.Secret, error) {
	args := m.Called(ctx, secret, name, version, authorizedEntities)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*secretsDomain.Secret), args.Error(1)
}

// GetSecret mocks the GetSecret method.
func (m *MockSecretUseCase) GetSecret(ctx context.Context, name string, version uint) ([]byte, error) {
	args := m.Called(ctx, name, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// DescribeSecrets mocks the DescribeSecrets method.
func (m *MockSecretUseCase) DescribeSecrets(
	ctx context.Context,
	name string,
	version uint,
) (secretsDomain.Description, error) {
	args := m.Called(ctx, name, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(secretsDomain.Description), args.Error(1)
}

// RotateDataKeys mocks the RotateDataKeys method.
func (m *MockSecretUseCase) RotateDataKeys(ctx context.Context, name string, version uint) error {
	args := m.Called(ctx, name, version)
	return args.Error(0)
}

// UpdateSecrets mocks the UpdateSecrets method.
func (m *MockSecretUseCase) UpdateSecrets(
	ctx context.Context,
	name string,
	version uint,
	authorizedEntities []string,
) error {
	args := m.Called(ctx, name, version, authorizedEntities)
	return args.Error(0)
}

// DeprecateSecrets mocks the DeprecateSecrets method.
func (m *MockSecretUseCase) DeprecateSecrets(ctx context.Context, name string, version uint) error {
	args := m.Called(ctx, name, version)
	return args.Error(0)
}

// ActivateSecrets mocks the ActivateSecrets method.
func (m *MockSecretUseCase) ActivateSecrets(ctx context.Context, name string, version uint) error {
	args := m.Called(ctx, name, version)
	return args.Error(0)
}

// EraseSecret mocks the EraseSecret method.
func (m *MockSecretUseCase) EraseSecret(ctx context.Context, name string, version uint) error {
	args := m.Called(ctx, name, version)
	return args.Error(0)
}

// EraseAllTheThings mocks the EraseAllTheThings method.
func (m *MockSecretUseCase) EraseAllTheThings(ctx context.Context, seriously bool) error {
	args := m.Called(ctx, seriously)
	return args.Error(0)
}
