package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/allisson/kaurna/cmd/app/commands"
	"github.com/allisson/kaurna/internal/app"
	"github.com/allisson/kaurna/internal/config"
	secretsUseCase "github.com/allisson/kaurna/internal/secrets/usecase"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP API server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return runServer(ctx, version)
			},
		},
		{
			Name:  "init",
			Usage: "Create the master key and the secrets table if they are missing",
			Flags: []cli.Flag{
				&cli.Int64Flag{
					Name:  "read-capacity",
					Value: 1,
					Usage: "Provisioned read capacity for a new DynamoDB table",
				},
				&cli.Int64Flag{
					Name:  "write-capacity",
					Value: 1,
					Usage: "Provisioned write capacity for a new DynamoDB table",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withSecretUseCase(ctx, func(useCase secretsUseCase.SecretUseCase, logger *slog.Logger) error {
					return commands.RunSetup(
						ctx,
						useCase,
						logger,
						commands.DefaultIO().Writer,
						cmd.Int64("read-capacity"),
						cmd.Int64("write-capacity"),
					)
				})
			},
		},
		{
			Name:  "erase-all-the-things",
			Usage: "Drop the secrets table and every secret in it",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "seriously",
					Usage: "Confirm that every secret should be destroyed",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return withSecretUseCase(ctx, func(useCase secretsUseCase.SecretUseCase, logger *slog.Logger) error {
					return commands.RunEraseAllTheThings(
						ctx,
						useCase,
						logger,
						commands.DefaultIO().Writer,
						cmd.Bool("seriously"),
					)
				})
			},
		},
		{
			Name:  "create-api-token",
			Usage: "Generate an API bearer token and the hash to configure the server with",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				return commands.RunCreateAPIToken(
					container.TokenService(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
	}
}

func runServer(ctx context.Context, version string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.AuthTokenHash == "" {
		return fmt.Errorf("AUTH_TOKEN_HASH is required to serve the API (see create-api-token)")
	}

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))
	defer commands.CloseContainer(container, logger)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	server, err := container.HTTPServer(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}
	runners := []commands.Runner{server}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}
	if metricsServer != nil {
		runners = append(runners, metricsServer)
	}

	return commands.RunServer(ctx, logger, cfg.ShutdownTimeout, runners...)
}
