// Package mocks provides testify mocks for the secret use case dependencies.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	secretsDomain "github.com/allisson/kaurna/internal/secrets/domain"
)

// MockSecretRepository is a mock implementation of SecretRepository for testing.
type MockSecretRepository struct {
	mock.Mock
}

// NewMockSecretRepository creates a mock that asserts its expectations on cleanup.
func NewMockSecretRepository(t *testing.T) *MockSecretRepository {
	m := &MockSecretRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// EnsureTable mocks the EnsureTable method.
func (m *MockSecretRepository) EnsureTable(ctx context.Context, readCapacity, writeCapacity int64) error {
	args := m.Called(ctx, readCapacity, writeCapacity)
	return args.Error(0)
}

// Query mocks the Query method.
func (m *MockSecretRepository) Query(
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

// Scan mocks the Scan method.
func (m *MockSecretRepository) Scan(ctx context.Context, fields ...string) ([]secretsDomain.Secret, error) {
	args := m.Called(ctx, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]secretsDomain.Secret), args.Error(1)
}

// Put mocks the Put method.
func (m *MockSecretRepository) Put(ctx context.Context, secret secretsDomain.Secret) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

// Delete mocks the Delete method.
func (m *MockSecretRepository) Delete(ctx context.Context, secret secretsDomain.Secret) error {
	args := m.Called(ctx, secret)
	return args.Error(0)
}

// DropTable mocks the DropTable method.
func (m *MockSecretRepository) DropTable(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
