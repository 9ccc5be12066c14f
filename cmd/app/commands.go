package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/kaurna/cmd/app/commands"
	"github.com/allisson/kaurna/internal/app"
	"github.com/allisson/kaurna/internal/config"
	secretsUseCase "github.com/allisson/kaurna/internal/secrets/usecase"
)

func getCommands(version string) []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getSystemCommands(version)...)
	cmds = append(cmds, getSecretCommands()...)
	return cmds
}

// withSecretUseCase loads configuration, builds a container and hands its secret use case
// to fn. The container is shut down when fn returns.
func withSecretUseCase(
	ctx context.Context,
	fn func(useCase secretsUseCase.SecretUseCase, logger *slog.Logger) error,
) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer commands.CloseContainer(container, logger)

	useCase, err := container.SecretUseCase(ctx)
	if err != nil {
		return err
	}
	return fn(useCase, logger)
}

func nameFlag(required bool) cli.Flag {
	return &cli.StringFlag{
		Name:     "name",
		Aliases:  []string{"n"},
		Required: required,
		Usage:    "Secret name",
	}
}

func versionFlag() cli.Flag {
	return &cli.UintFlag{
		Name:  "version",
		Usage: "Secret version (omit for every version, or the latest when reading)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   commands.FormatText,
		Usage:   "Output format: 'text' or 'json'",
	}
}

func entityFlag(required bool) cli.Flag {
	return &cli.StringSliceFlag{
		Name:     "entity",
		Aliases:  []string{"e"},
		Required: required,
		Usage:    "Authorized entity (repeatable)",
	}
}
