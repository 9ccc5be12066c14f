package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	secretsUseCase "github.com/allisson/kaurna/internal/secrets/usecase"
)

// RunSetup provisions the master key and the secrets table. Safe to re-run.
func RunSetup(
	ctx context.Context,
	secretUseCase secretsUseCase.SecretUseCase,
	logger *slog.Logger,
	writer io.Writer,
	readCapacity, writeCapacity int64,
) error {
	if readCapacity < 1 || writeCapacity < 1 {
		return fmt.Errorf("read and write capacity must be at least 1")
	}

	result, err := secretUseCase.Setup(ctx, readCapacity, writeCapacity)
	if err != nil {
		return fmt.Errorf("failed to set up: %w", err)
	}

	if result.MasterKeyCreated {
		_, _ = fmt.Fprintln(writer, "Master key created.")
	} else {
		_, _ = fmt.Fprintln(writer, "Master key already present.")
	}
	_, _ = fmt.Fprintln(writer, "Secrets table ready.")

	logger.Info("setup finished",
		slog.Bool("master_key_created", result.MasterKeyCreated),
		slog.Int64("read_capacity", readCapacity),
		slog.Int64("write_capacity", writeCapacity),
	)
	return nil
}
