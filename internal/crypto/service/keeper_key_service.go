package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"

	"gocloud.dev/gcerrors"
	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/kaurna/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// Keeper is the subset of *secrets.Keeper used by KeeperKeyService.
type Keeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// OpenKeeper opens a secrets.Keeper for the KMS provider behind keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func OpenKeeper(ctx context.Context, keyURI string) (*secrets.Keeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// keeperEnvelope is the plaintext sealed by the keeper for each data key.
type keeperEnvelope struct {
	Context cryptoDomain.EncryptionContext `json:"context"`
	Key     []byte                         `json:"key"`
}

// rejectedCodes are keeper error codes meaning the provider refused the ciphertext.
// Any other failure is the provider's own.
var rejectedCodes = map[gcerrors.ErrorCode]bool{
	gcerrors.InvalidArgument:    true,
	gcerrors.PermissionDenied:   true,
	gcerrors.FailedPrecondition: true,
}

// KeeperKeyService implements KeyService for any provider reachable through
// gocloud.dev/secrets.
//
// Providers behind a keeper only offer encrypt/decrypt, so data keys are drawn
// locally and sealed together with their encryption context. Unwrapping opens the
// envelope and refuses to return the key unless the presented context is identical
// to the sealed one, which gives the same guarantee KMS gives natively.
type KeeperKeyService struct {
	keeper Keeper
	random io.Reader
}

// NewKeeperKeyService creates a key service over keeper.
func NewKeeperKeyService(keeper Keeper) *KeeperKeyService {
	return &KeeperKeyService{keeper: keeper, random: rand.Reader}
}

// EnsureMasterKey verifies the keeper can seal and open data. Keeper master keys are
// provisioned with the provider, so this never creates one.
func (k *KeeperKeyService) EnsureMasterKey(ctx context.Context) (bool, error) {
	sealed, err := k.keeper.Encrypt(ctx, []byte(cryptoDomain.DefaultKeyAlias))
	if err != nil {
		return false, fmt.Errorf("%w: keeper cannot seal data: %w", cryptoDomain.ErrKeyServiceFailed, err)
	}
	if _, err := k.keeper.Decrypt(ctx, sealed); err != nil {
		return false, fmt.Errorf("%w: keeper cannot open data: %w", cryptoDomain.ErrKeyServiceFailed, err)
	}
	return false, nil
}

// GenerateDataKey draws a 32-byte key and seals it with encryptionContext.
func (k *KeeperKeyService) GenerateDataKey(
	ctx context.Context,
	encryptionContext cryptoDomain.EncryptionContext,
) (*cryptoDomain.DataKey, error) {
	key := make([]byte, cryptoDomain.DataKeySize)
	if _, err := io.ReadFull(k.random, key); err != nil {
		return nil, fmt.Errorf("failed to generate data key: %w", err)
	}

	payload, err := json.Marshal(keeperEnvelope{Context: encryptionContext, Key: key})
	if err != nil {
		cryptoDomain.Zero(key)
		return nil, fmt.Errorf("failed to encode data key: %w", err)
	}
	defer cryptoDomain.Zero(payload)

	wrapped, err := k.keeper.Encrypt(ctx, payload)
	if err != nil {
		cryptoDomain.Zero(key)
		return nil, fmt.Errorf("%w: failed to wrap data key: %w", cryptoDomain.ErrKeyServiceFailed, err)
	}

	return &cryptoDomain.DataKey{Plaintext: key, Ciphertext: wrapped}, nil
}

// UnwrapDataKey opens wrappedKey and checks encryptionContext against the sealed one.
func (k *KeeperKeyService) UnwrapDataKey(
	ctx context.Context,
	wrappedKey []byte,
	encryptionContext cryptoDomain.EncryptionContext,
) ([]byte, error) {
	payload, err := k.keeper.Decrypt(ctx, wrappedKey)
	if err != nil {
		if rejectedCodes[gcerrors.Code(err)] {
			return nil, fmt.Errorf("%w: %w", cryptoDomain.ErrAuthorizationFailed, err)
		}
		return nil, fmt.Errorf("%w: failed to unwrap data key: %w", cryptoDomain.ErrKeyServiceFailed, err)
	}
	defer cryptoDomain.Zero(payload)

	var envelope keeperEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed data key envelope", cryptoDomain.ErrAuthorizationFailed)
	}
	if len(envelope.Key) != cryptoDomain.DataKeySize {
		cryptoDomain.Zero(envelope.Key)
		return nil, fmt.Errorf("%w: malformed data key envelope", cryptoDomain.ErrAuthorizationFailed)
	}
	if !envelope.Context.Equal(encryptionContext) {
		cryptoDomain.Zero(envelope.Key)
		return nil, fmt.Errorf("%w: encryption context does not match", cryptoDomain.ErrAuthorizationFailed)
	}

	return envelope.Key, nil
}

// Close releases the underlying keeper.
func (k *KeeperKeyService) Close() error {
	return k.keeper.Close()
}
