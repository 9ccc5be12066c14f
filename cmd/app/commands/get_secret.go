package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/kaurna/internal/crypto/domain"
	secretsUseCase "github.com/allisson/kaurna/internal/secrets/usecase"
)

// RunGetSecret decrypts a secret and writes the raw plaintext to writer. A zero version
// reads the latest non-deprecated version.
func RunGetSecret(
	ctx context.Context,
	secretUseCase secretsUseCase.SecretUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	version uint,
) error {
	plaintext, err := secretUseCase.GetSecret(ctx, name, version)
	if err != nil {
		return fmt.Errorf("failed to get secret: %w", err)
	}
	defer cryptoDomain.Zero(plaintext)

	if _, err := writer.Write(plaintext); err != nil {
		return fmt.Errorf("failed to write secret: %w", err)
	}

	logger.Debug("secret read", slog.String("name", name), slog.Uint64("version", uint64(version)))
	return nil
}
