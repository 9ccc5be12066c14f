package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Runner is a server that blocks in Start until Shutdown is called.
type Runner interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// RunServer starts every runner and blocks until ctx is cancelled or one of them fails.
// All runners are then shut down within shutdownTimeout. The first start failure, if
// any, is returned ahead of shutdown failures.
func RunServer(
	ctx context.Context,
	logger *slog.Logger,
	shutdownTimeout time.Duration,
	runners ...Runner,
) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, runner := range runners {
		g.Go(func() error {
			return runner.Start(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			logger.Info("shutdown signal received")
		} else {
			logger.Error("server error, initiating shutdown")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var shutdownErrors []error
		for _, runner := range runners {
			if err := runner.Shutdown(shutdownCtx); err != nil {
				shutdownErrors = append(shutdownErrors, fmt.Errorf("server shutdown: %w", err))
			}
		}
		return errors.Join(shutdownErrors...)
	})

	return g.Wait()
}
