package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/kaurna/cmd/app/commands"
	secretsUseCase "github.com/allisson/kaurna/internal/secrets/usecase"
)

func getSecretCommands() []*cli.Command {
	cmds := []*cli.Command{
		{
			Name:  "store",
			Usage: "Encrypt and store a new secret version",
			Flags: []cli.Flag{
				nameFlag(true),
				&cli.StringFlag{
					Name:  "value",
					Usage: "Secret value",
				},
				&cli.StringFlag{
					Name:  "value-file",
					Usage: "Read the secret value from this file",
				},
				versionFlag(),
				entityFlag(false),
				formatFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withSecretUseCase(ctx, func(useCase secretsUseCase.SecretUseCase, logger *slog.Logger) error {
					return commands.RunStoreSecret(ctx, useCase, logger, commands.DefaultIO().Writer,
						commands.StoreSecretInput{
							Name:               cmd.String("name"),
							Value:              cmd.String("value"),
							ValueFile:          cmd.String("value-file"),
							Version:            cmd.Uint("version"),
							AuthorizedEntities: cmd.StringSlice("entity"),
							Format:             cmd.String("format"),
						},
					)
				})
			},
		},
		{
			Name:  "get",
			Usage: "Decrypt a secret and print its value",
			Flags: []cli.Flag{nameFlag(true), versionFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withSecretUseCase(ctx, func(useCase secretsUseCase.SecretUseCase, logger *slog.Logger) error {
					return commands.RunGetSecret(ctx, useCase, logger, commands.DefaultIO().Writer,
						cmd.String("name"), cmd.Uint("version"))
				})
			},
		},
		{
			Name:  "describe",
			Usage: "Show secret metadata without decrypting anything",
			Flags: []cli.Flag{nameFlag(false), versionFlag(), formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withSecretUseCase(ctx, func(useCase secretsUseCase.SecretUseCase, logger *slog.Logger) error {
					return commands.RunDescribeSecrets(ctx, useCase, logger, commands.DefaultIO().Writer,
						cmd.String("name"), cmd.Uint("version"), cmd.String("format"))
				})
			},
		},
		{
			Name:  "update",
			Usage: "Replace the authorized entities of matching secrets",
			Flags: []cli.Flag{
				nameFlag(false),
				versionFlag(),
				entityFlag(true),
				&cli.BoolFlag{
					Name:  "all",
					Usage: "Update every secret when no --name is given",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withSecretUseCase(ctx, func(useCase secretsUseCase.SecretUseCase, logger *slog.Logger) error {
					return commands.RunUpdateSecrets(ctx, useCase, logger, commands.DefaultIO().Writer,
						cmd.String("name"), cmd.Uint("version"), cmd.StringSlice("entity"), cmd.Bool("all"))
				})
			},
		},
	}

	lifecycle := []struct {
		operation    string
		usage        string
		nameRequired bool
	}{
		{commands.OperationRotate, "Re-encrypt matching secrets under fresh data keys", false},
		{commands.OperationDeprecate, "Exclude matching versions from latest-version reads", false},
		{commands.OperationActivate, "Undo a deprecation", false},
		{commands.OperationErase, "Delete a secret, or one of its versions", true},
	}
	for _, l := range lifecycle {
		cmds = append(cmds, &cli.Command{
			Name:  l.operation,
			Usage: l.usage,
			Flags: []cli.Flag{nameFlag(l.nameRequired), versionFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withSecretUseCase(ctx, func(useCase secretsUseCase.SecretUseCase, logger *slog.Logger) error {
					return commands.RunLifecycle(ctx, useCase, logger, commands.DefaultIO().Writer,
						l.operation, cmd.String("name"), cmd.Uint("version"))
				})
			},
		})
	}

	return cmds
}
