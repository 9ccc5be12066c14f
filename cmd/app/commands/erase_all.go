package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	secretsUseCase "github.com/allisson/kaurna/internal/secrets/usecase"
)

// RunEraseAllTheThings drops the secrets table. Without seriously nothing is erased.
func RunEraseAllTheThings(
	ctx context.Context,
	secretUseCase secretsUseCase.SecretUseCase,
	logger *slog.Logger,
	writer io.Writer,
	seriously bool,
) error {
	if err := secretUseCase.EraseAllTheThings(ctx, seriously); err != nil {
		return fmt.Errorf("failed to erase all secrets: %w", err)
	}
	if !seriously {
		_, _ = fmt.Fprintln(writer, "Refusing to erase every secret without --seriously.")
		return nil
	}

	_, _ = fmt.Fprintln(writer, "All secrets erased.")
	logger.Info("erase all the things finished")
	return nil
}
