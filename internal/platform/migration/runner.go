// Copyright (c) 2026 Verdano Commerce. All rights reserved.
// Author: eng@verdano.dev

// Package migration runs the SQL schema migrations at startup via
// golang-migrate.
//
// The server refuses to take traffic against a schema it does not recognize:
// RunUp is called before any handler is wired, and a dirty migration state
// aborts startup rather than guessing.
package migration

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Registers the "pgx5" database scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	// Registers the "file://" source for .sql files on disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

/*
RunUp applies every pending UP migration from the given directory.

Idempotent: a database already at the latest version is a logged no-op.

Parameters:
  - dsn: postgres:// or postgresql:// connection URL
  - migrationsPath: directory holding NNNNNN_name.{up,down}.sql files
  - logger: structured logger for migration events

Returns:
  - error: Initialization failures, a dirty schema state, or a failed step
*/
func RunUp(dsn string, migrationsPath string, logger *slog.Logger) error {

	migrator, err := migrate.New("file://"+migrationsPath, pgx5URL(dsn))
	if err != nil {
		return fmt.Errorf("migration: failed to initialize: %w", err)
	}
	defer func() {
		sourceErr, databaseErr := migrator.Close()
		if sourceErr != nil {
			logger.Error("migration_source_close_failed", slog.Any("error", sourceErr))
		}
		if databaseErr != nil {
			logger.Error("migration_db_close_failed", slog.Any("error", databaseErr))
		}
	}()

	migrator.Log = &migrateLogger{logger: logger}

	version, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("migration: failed to read current version: %w", err)
	}

	// A dirty flag means a previous run died mid-migration. Refuse to guess.
	if dirty {
		return fmt.Errorf("migration: schema dirty at version %d, manual repair required", version)
	}

	logger.Info("migration_started", slog.Int("current_version", int(version)))

	if err := migrator.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("migration_schema_current")
			return nil
		}
		return fmt.Errorf("migration: up failed: %w", err)
	}

	appliedVersion, _, _ := migrator.Version()
	logger.Info("migration_applied",
		slog.Int("from_version", int(version)),
		slog.Int("to_version", int(appliedVersion)),
	)

	return nil
}

// pgx5URL rewrites a postgres URL onto the pgx5:// scheme that
// golang-migrate's pgx/v5 driver registers under.
func pgx5URL(dsn string) string {
	switch {
	case strings.HasPrefix(dsn, "postgres://"):
		return "pgx5://" + strings.TrimPrefix(dsn, "postgres://")
	case strings.HasPrefix(dsn, "postgresql://"):
		return "pgx5://" + strings.TrimPrefix(dsn, "postgresql://")
	default:
		return dsn
	}
}

// migrateLogger bridges golang-migrate's Logger interface onto slog.
type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

func (l *migrateLogger) Printf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *migrateLogger) Verbose() bool { return l.verbose }
