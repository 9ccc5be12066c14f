package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	secretsUseCase "github.com/allisson/kaurna/internal/secrets/usecase"
)

// Lifecycle operations shared by the rotate, deprecate, activate and erase commands.
const (
	OperationRotate    = "rotate"
	OperationDeprecate = "deprecate"
	OperationActivate  = "activate"
	OperationErase     = "erase"
)

// RunLifecycle applies operation to every record matching name and version. An empty
// name targets every secret, except for erase which requires one.
func RunLifecycle(
	ctx context.Context,
	secretUseCase secretsUseCase.SecretUseCase,
	logger *slog.Logger,
	writer io.Writer,
	operation string,
	name string,
	version uint,
) error {
	var apply func(context.Context, string, uint) error
	var done string
	switch operation {
	case OperationRotate:
		apply, done = secretUseCase.RotateDataKeys, "Rotated data keys"
	case OperationDeprecate:
		apply, done = secretUseCase.DeprecateSecrets, "Deprecated"
	case OperationActivate:
		apply, done = secretUseCase.ActivateSecrets, "Activated"
	case OperationErase:
		apply, done = secretUseCase.EraseSecret, "Erased"
	default:
		return fmt.Errorf("unknown operation: %s", operation)
	}

	if err := apply(ctx, name, version); err != nil {
		return fmt.Errorf("failed to %s: %w", operation, err)
	}

	logger.Info("lifecycle operation finished",
		slog.String("operation", operation),
		slog.String("name", name),
		slog.Uint64("version", uint64(version)),
	)

	_, err := fmt.Fprintf(writer, "%s %s\n", done, describeTarget(name, version))
	return err
}

// RunUpdateSecrets replaces the authorized entities of every matching record.
// An empty name targets every secret and is only accepted when all is set.
func RunUpdateSecrets(
	ctx context.Context,
	secretUseCase secretsUseCase.SecretUseCase,
	logger *slog.Logger,
	writer io.Writer,
	name string,
	version uint,
	authorizedEntities []string,
	all bool,
) error {
	if name == "" && !all {
		return fmt.Errorf("--name is required (use --all to update every secret)")
	}
	if name != "" && all {
		return fmt.Errorf("--name and --all are mutually exclusive")
	}
	if len(authorizedEntities) == 0 {
		return fmt.Errorf("at least one --entity is required")
	}

	if err := secretUseCase.UpdateSecrets(ctx, name, version, authorizedEntities); err != nil {
		return fmt.Errorf("failed to update secrets: %w", err)
	}

	logger.Info("authorized entities updated",
		slog.String("name", name),
		slog.Uint64("version", uint64(version)),
		slog.Int("entities", len(authorizedEntities)),
	)

	_, err := fmt.Fprintf(writer, "Updated %s\n", describeTarget(name, version))
	return err
}

func describeTarget(name string, version uint) string {
	switch {
	case name == "":
		return "all secrets"
	case version == 0:
		return name
	default:
		return fmt.Sprintf("%s version %d", name, version)
	}
}
