// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/animes/internal/platform/config"
	"github.com/taibuivan/animes/internal/platform/migration"
	"github.com/taibuivan/animes/internal/platform/sqlite"
)

func newMigrateCommand(state *cli) *cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.migrateUp(cmd.Context())
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations (PostgreSQL only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.migrateDown(cmd.Context(), steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.migrateVersion(cmd.Context())
		},
	}

	migrate.AddCommand(up, down, version)
	return migrate
}

func (state *cli) migrateUp(ctx context.Context) error {
	switch state.cfg.StoreDriver {
	case config.DriverPostgres:
		runner := migration.NewRunner(state.cfg.DatabaseURL, state.cfg.MigrationPath, state.log)
		if err := runner.Up(); err != nil {
			return err
		}
		return state.migrateVersion(ctx)

	case config.DriverSQLite:
		// Opening a SQLite store migrates it.
		db, err := sqlite.Open(state.cfg.SQLitePath, state.log)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return state.printSQLiteVersion(ctx, db)
	}

	return errMemoryDriver
}

func (state *cli) migrateDown(ctx context.Context, steps int) error {
	switch state.cfg.StoreDriver {
	case config.DriverPostgres:
		runner := migration.NewRunner(state.cfg.DatabaseURL, state.cfg.MigrationPath, state.log)
		if err := runner.Down(steps); err != nil {
			return err
		}
		return state.migrateVersion(ctx)

	case config.DriverSQLite:
		return errors.New("animectl: SQLite migrations are forward-only")
	}

	return errMemoryDriver
}

func (state *cli) migrateVersion(ctx context.Context) error {
	switch state.cfg.StoreDriver {
	case config.DriverPostgres:
		version, err := migration.NewRunner(state.cfg.DatabaseURL, state.cfg.MigrationPath, state.log).Version()
		if err != nil {
			return err
		}
		state.printf("schema version %d\n", version)
		return nil

	case config.DriverSQLite:
		db, err := sqlite.Open(state.cfg.SQLitePath, state.log)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return state.printSQLiteVersion(ctx, db)
	}

	return errMemoryDriver
}

func (state *cli) printSQLiteVersion(ctx context.Context, db *sqlite.DB) error {
	version, err := db.Version(ctx)
	if err != nil {
		return fmt.Errorf("animectl: %w", err)
	}
	state.printf("schema version %d\n", version)
	return nil
}
