// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/animes/internal/core/anime"
	"github.com/taibuivan/animes/internal/platform/config"
	"github.com/taibuivan/animes/internal/platform/migration"
	pgstore "github.com/taibuivan/animes/internal/platform/postgres"
	"github.com/taibuivan/animes/internal/platform/sqlite"
	"github.com/taibuivan/animes/internal/users/auth"
)

// storage bundles the repositories of one store driver with its lifecycle hooks.
type storage struct {
	animes anime.Repository
	users  auth.UserRepository
	ping   func(ctx context.Context) error
	close  func()
}

// openStorage connects the driver selected by STORE_DRIVER and brings its schema up to date.
func openStorage(ctx context.Context, cfg *config.Config, log *slog.Logger) (*storage, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
			return nil, err
		}

		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}

		return &storage{
			animes: anime.NewPostgresRepository(pool),
			users:  auth.NewPostgresUserRepository(pool),
			ping: func(ctx context.Context) error {
				return pgstore.Ping(ctx, pool)
			},
			close: func() {
				log.Info("postgres_pool_closing")
				pool.Close()
			},
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath, log)
		if err != nil {
			return nil, err
		}

		return &storage{
			animes: anime.NewSQLiteRepository(db),
			users:  auth.NewSQLiteUserRepository(db),
			ping:   db.Ping,
			close: func() {
				log.Info("sqlite_closing")
				if err := db.Close(); err != nil {
					log.Error("sqlite_close_failed", slog.Any("error", err))
				}
			},
		}, nil

	case config.DriverMemory:
		log.Warn("memory_store_selected", slog.String("hint", "data is lost on restart"))

		return &storage{
			animes: anime.NewMemoryRepository(),
			users:  auth.NewMemoryUserRepository(),
			ping:   func(context.Context) error { return nil },
			close:  func() {},
		}, nil
	}

	return nil, fmt.Errorf("storage: unknown driver %q", cfg.StoreDriver)
}
