package usecase

import (
	"cmp"
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/kaurna/internal/crypto/domain"
	cryptoService "github.com/allisson/kaurna/internal/crypto/service"
	secretsDomain "github.com/allisson/kaurna/internal/secrets/domain"
)

var (
	createTime = time.Unix(1700000000, 0)
	rotateTime = time.Unix(1700086400, 0)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeKeyService wraps data keys by handle and enforces the encryption context on unwrap.
type fakeKeyService struct {
	mu      sync.Mutex
	wrapped map[string]fakeWrappedKey
	next    int
}

type fakeWrappedKey struct {
	key     []byte
	context cryptoDomain.EncryptionContext
}

func newFakeKeyService() *fakeKeyService {
	return &fakeKeyService{wrapped: make(map[string]fakeWrappedKey)}
}

func (f *fakeKeyService) EnsureMasterKey(context.Context) (bool, error) {
	return false, nil
}

func (f *fakeKeyService) GenerateDataKey(
	_ context.Context,
	encryptionContext cryptoDomain.EncryptionContext,
) (*cryptoDomain.DataKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := make([]byte, cryptoDomain.DataKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	f.next++
	handle := fmt.Sprintf("wrapped-%d", f.next)
	f.wrapped[handle] = fakeWrappedKey{key: slices.Clone(key), context: maps.Clone(encryptionContext)}

	return &cryptoDomain.DataKey{Plaintext: key, Ciphertext: []byte(handle)}, nil
}

func (f *fakeKeyService) UnwrapDataKey(
	_ context.Context,
	wrappedKey []byte,
	encryptionContext cryptoDomain.EncryptionContext,
) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.wrapped[string(wrappedKey)]
	if !ok || !entry.context.Equal(encryptionContext) {
		return nil, cryptoDomain.ErrAuthorizationFailed
	}
	return slices.Clone(entry.key), nil
}

// memorySecretRepository keeps records in a map and counts mutations.
type memorySecretRepository struct {
	mu        sync.Mutex
	records   map[string]secretsDomain.Secret
	puts      int
	deletes   int
	drops     int
	failPutAt int
}

func newMemorySecretRepository() *memorySecretRepository {
	return &memorySecretRepository{records: make(map[string]secretsDomain.Secret)}
}

func recordKey(name string, version uint) string {
	return fmt.Sprintf("%s/%d", name, version)
}

func (r *memorySecretRepository) EnsureTable(context.Context, int64, int64) error {
	return nil
}

func (r *memorySecretRepository) Query(
	_ context.Context,
	name string,
	version uint,
	_ ...string,
) ([]secretsDomain.Secret, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []secretsDomain.Secret
	for _, s := range r.records {
		if s.Name == name && (version == 0 || s.Version == version) {
			out = append(out, s.Clone())
		}
	}
	slices.SortFunc(out, func(a, b secretsDomain.Secret) int { return cmp.Compare(a.Version, b.Version) })
	return out, nil
}

func (r *memorySecretRepository) Scan(context.Context, ...string) ([]secretsDomain.Secret, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]secretsDomain.Secret, 0, len(r.records))
	for _, s := range r.records {
		out = append(out, s.Clone())
	}
	slices.SortFunc(out, func(a, b secretsDomain.Secret) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Version, b.Version))
	})
	return out, nil
}

func (r *memorySecretRepository) Put(_ context.Context, secret secretsDomain.Secret) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.puts++
	if r.failPutAt > 0 && r.puts == r.failPutAt {
		return fmt.Errorf("%w: injected", secretsDomain.ErrRecordStoreFailed)
	}
	r.records[recordKey(secret.Name, secret.Version)] = secret.Clone()
	return nil
}

func (r *memorySecretRepository) Delete(_ context.Context, secret secretsDomain.Secret) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deletes++
	delete(r.records, recordKey(secret.Name, secret.Version))
	return nil
}

func (r *memorySecretRepository) DropTable(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.drops++
	r.records = make(map[string]secretsDomain.Secret)
	return nil
}

func (r *memorySecretRepository) get(t *testing.T, name string, version uint) secretsDomain.Secret {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.records[recordKey(name, version)]
	require.True(t, ok, "record %s/%d not found", name, version)
	return s.Clone()
}

// engineFixture wires the engine to in-memory collaborators and a real cipher.
type engineFixture struct {
	useCase SecretUseCase
	repo    *memorySecretRepository
	keys    *fakeKeyService
	clock   *time.Time
}

func newEngineFixture() *engineFixture {
	now := createTime
	f := &engineFixture{
		repo:  newMemorySecretRepository(),
		keys:  newFakeKeyService(),
		clock: &now,
	}
	f.useCase = NewSecretUseCase(
		f.repo,
		f.keys,
		cryptoService.NewAESCBCCipher(),
		discardLogger(),
		WithClock(func() time.Time { return *f.clock }),
	)
	return f
}

// decrypt opens a stored record the way the engine does.
func (f *engineFixture) decrypt(t *testing.T, secret secretsDomain.Secret) string {
	t.Helper()
	key, err := f.keys.UnwrapDataKey(context.Background(), secret.EncryptedDataKey, secret.EncryptionContext)
	require.NoError(t, err)
	plaintext, err := cryptoService.NewAESCBCCipher().Decrypt(secret.EncryptedSecret, key)
	require.NoError(t, err)
	return string(plaintext)
}
