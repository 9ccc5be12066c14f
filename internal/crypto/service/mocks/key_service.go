// Package mocks provides testify mocks for the crypto services.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/kaurna/internal/crypto/domain"
)

// MockKeyService is a mock implementation of KeyService for testing.
type MockKeyService struct {
	mock.Mock
}

// NewMockKeyService creates a mock that asserts its expectations on cleanup.
func NewMockKeyService(t *testing.T) *MockKeyService {
	m := &MockKeyService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// EnsureMasterKey mocks the EnsureMasterKey method.
func (m *MockKeyService) EnsureMasterKey(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// GenerateDataKey mocks the GenerateDataKey method.
func (m *MockKeyService) GenerateDataKey(
	ctx context.Context,
	encryptionContext cryptoDomain.EncryptionContext,
) (*cryptoDomain.DataKey, error) {
	args := m.Called(ctx, encryptionContext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.DataKey), args.Error(1)
}

// UnwrapDataKey mocks the UnwrapDataKey method.
func (m *MockKeyService) UnwrapDataKey(
	ctx context.Context,
	wrappedKey []byte,
	encryptionContext cryptoDomain.EncryptionContext,
) ([]byte, error) {
	args := m.Called(ctx, wrappedKey, encryptionContext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
