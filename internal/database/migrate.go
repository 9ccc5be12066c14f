package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// Supported SQL drivers.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Migrator creates and drops the secrets table through the embedded migrations.
type Migrator struct {
	db     *sql.DB
	driver string
	logger *slog.Logger
}

// NewMigrator creates a Migrator for db, which must have been opened with driver.
func NewMigrator(db *sql.DB, driver string, logger *slog.Logger) *Migrator {
	return &Migrator{db: db, driver: driver, logger: logger}
}

// Up applies all pending migrations. Already applied migrations are not an error.
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, "up", (*migrate.Migrate).Up)
}

// Down reverts every migration, dropping the secrets table.
func (m *Migrator) Down(ctx context.Context) error {
	return m.run(ctx, "down", (*migrate.Migrate).Down)
}

func (m *Migrator) run(ctx context.Context, direction string, step func(*migrate.Migrate) error) error {
	mg, err := m.newMigrate(ctx)
	if err != nil {
		return err
	}
	defer m.close(mg)

	if err := step(mg); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations %s: %w", direction, err)
	}

	m.logger.Info("migrations completed",
		slog.String("driver", m.driver),
		slog.String("direction", direction),
	)
	return nil
}

func (m *Migrator) newMigrate(ctx context.Context) (*migrate.Migrate, error) {
	var dir string
	switch m.driver {
	case DriverPostgres:
		dir = "migrations/postgresql"
	case DriverMySQL:
		dir = "migrations/mysql"
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", m.driver)
	}

	source, err := iofs.New(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	// A dedicated connection keeps migrate's Close from closing the shared pool.
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}

	var driver migratedb.Driver
	switch m.driver {
	case DriverPostgres:
		driver, err = postgres.WithConnection(ctx, conn, &postgres.Config{})
	case DriverMySQL:
		driver, err = mysql.WithConnection(ctx, conn, &mysql.Config{})
	}
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create migrate driver: %w", err)
	}

	mg, err := migrate.NewWithInstance("iofs", source, m.driver, driver)
	if err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mg, nil
}

func (m *Migrator) close(mg *migrate.Migrate) {
	sourceErr, dbErr := mg.Close()
	if sourceErr != nil {
		m.logger.Error("failed to close migration source", slog.Any("error", sourceErr))
	}
	if dbErr != nil {
		m.logger.Error("failed to close migration database", slog.Any("error", dbErr))
	}
}
