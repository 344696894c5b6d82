// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sqlite opens the embedded SQLite database used when STORE_DRIVER=sqlite.
//
// The schema is versioned with 'PRAGMA user_version' and upgraded in place on open.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	// modernc registers the pure-Go "sqlite" driver.
	_ "modernc.org/sqlite"
)

const pingTimeout = 2 * time.Second

// DB wraps the SQL handle together with the squirrel builder its stores use.
type DB struct {
	handler *sql.DB
	logger  *slog.Logger
	lock    sync.Mutex
	builder sq.StatementBuilderType
}

// Open connects to the SQLite file at path and migrates the schema.
func Open(path string, logger *slog.Logger) (*DB, error) {
	dsn := path + "?_pragma=busy_timeout%3d5000&_pragma=foreign_keys%3don"

	handler, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: unable to open %s: %w", path, err)
	}

	if _, err := handler.Exec(`PRAGMA journal_mode = wal;`); err != nil {
		_ = handler.Close()
		return nil, fmt.Errorf("sqlite: unable to enable WAL mode: %w", err)
	}

	db := &DB{
		handler: handler,
		logger:  logger,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}

	if err := db.Migrate(context.Background()); err != nil {
		_ = handler.Close()
		return nil, err
	}

	logger.Info("sqlite_opened", slog.String("path", path))
	return db, nil
}

// Handler returns the underlying *sql.DB.
func (db *DB) Handler() *sql.DB {
	return db.handler
}

// Builder returns the statement builder configured for SQLite placeholders.
func (db *DB) Builder() sq.StatementBuilderType {
	return db.builder
}

// Migrate brings the schema up to the latest version.
func (db *DB) Migrate(ctx context.Context) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	var version int
	if err := db.handler.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("sqlite: failed to query schema version: %w", err)
	}

	latest := len(migrations)
	if version == latest {
		return nil
	}
	if version > latest {
		return fmt.Errorf("sqlite: schema version (%d) is newer than supported (%d)", version, latest)
	}

	db.logger.Info("sqlite_migration_started", slog.Int("from_version", version), slog.Int("to_version", latest))

	tx, err := db.handler.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: failed to begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for index := version; index < latest; index++ {
		if _, err := tx.ExecContext(ctx, migrations[index]); err != nil {
			return fmt.Errorf("sqlite: migration #%d failed: %w", index+1, err)
		}
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", latest)); err != nil {
		return fmt.Errorf("sqlite: failed to bump schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: failed to commit migration: %w", err)
	}

	db.logger.Info("sqlite_migration_successful", slog.Int("version", latest))
	return nil
}

// Version reports the schema version recorded in PRAGMA user_version.
func (db *DB) Version(ctx context.Context) (int, error) {
	var version int
	if err := db.handler.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("sqlite: failed to query schema version: %w", err)
	}
	return version, nil
}

// Ping verifies that the database file is reachable.
func (db *DB) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.handler.PingContext(pingCtx); err != nil {
		return fmt.Errorf("sqlite: ping failed: %w", err)
	}
	return nil
}

// Close runs the query planner optimisation and closes the handle.
func (db *DB) Close() error {
	if _, err := db.handler.Exec(`PRAGMA optimize;`); err != nil {
		db.logger.Warn("sqlite_optimize_failed", slog.Any("error", err))
	}
	return db.handler.Close()
}
