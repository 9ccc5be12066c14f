package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	cryptoDomain "github.com/allisson/kaurna/internal/crypto/domain"
	secretsUseCase "github.com/allisson/kaurna/internal/secrets/usecase"
)

// StoreSecretInput carries the flags of the store command. Exactly one of Value and
// ValueFile must be set.
type StoreSecretInput struct {
	Name               string
	Value              string
	ValueFile          string
	Version            uint
	AuthorizedEntities []string
	Format             string
}

// RunStoreSecret encrypts a value and stores it as a new version of a secret.
func RunStoreSecret(
	ctx context.Context,
	secretUseCase secretsUseCase.SecretUseCase,
	logger *slog.Logger,
	writer io.Writer,
	input StoreSecretInput,
) error {
	if err := validateFormat(input.Format); err != nil {
		return err
	}

	value, err := readSecretValue(input.Value, input.ValueFile)
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(value)

	secret, err := secretUseCase.StoreSecret(ctx, value, input.Name, input.Version, input.AuthorizedEntities)
	if err != nil {
		return fmt.Errorf("failed to store secret: %w", err)
	}

	logger.Info("secret stored",
		slog.String("name", secret.Name),
		slog.Uint64("version", uint64(secret.Version)),
	)

	if input.Format == FormatJSON {
		return writeJSON(writer, map[string]any{
			"name":    secret.Name,
			"version": secret.Version,
		})
	}
	_, err = fmt.Fprintf(writer, "Stored %s version %d\n", secret.Name, secret.Version)
	return err
}

func readSecretValue(value, valueFile string) ([]byte, error) {
	switch {
	case value != "" && valueFile != "":
		return nil, fmt.Errorf("--value and --value-file are mutually exclusive")
	case valueFile != "":
		content, err := os.ReadFile(valueFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read value file: %w", err)
		}
		return content, nil
	case value != "":
		return []byte(value), nil
	default:
		return nil, fmt.Errorf("one of --value or --value-file is required")
	}
}
