// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/animes/internal/platform/config"
	"github.com/taibuivan/animes/internal/platform/migration"
	pgstore "github.com/taibuivan/animes/internal/platform/postgres"
	"github.com/taibuivan/animes/internal/platform/sec"
	"github.com/taibuivan/animes/internal/platform/sqlite"
	"github.com/taibuivan/animes/internal/users/auth"
)

func newUserCommand(state *cli) *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var input auth.CreateUserInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Provision a user account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Role = strings.ToUpper(strings.TrimSpace(input.Role))
			return state.createUser(cmd.Context(), input)
		},
	}

	create.Flags().StringVar(&input.Username, "username", "", "account username")
	create.Flags().StringVar(&input.Password, "password", "", "account password")
	create.Flags().StringVar(&input.Role, "role", string(sec.RoleUser), "account role (USER or ADMIN)")
	_ = create.MarkFlagRequired("username")
	_ = create.MarkFlagRequired("password")

	user.AddCommand(create)
	return user
}

func (state *cli) createUser(ctx context.Context, input auth.CreateUserInput) error {
	repository, closeStore, err := state.openUserRepository(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	created, err := auth.NewService(repository, state.log).CreateUser(ctx, input)
	if err != nil {
		return err
	}

	state.printf("created user %s (%s) id=%s\n", created.Username, created.Role, created.ID)
	return nil
}

// openUserRepository connects the configured store, migrating it first.
func (state *cli) openUserRepository(ctx context.Context) (auth.UserRepository, func(), error) {
	switch state.cfg.StoreDriver {
	case config.DriverPostgres:
		if err := migration.RunUp(state.cfg.DatabaseURL, state.cfg.MigrationPath, state.log); err != nil {
			return nil, nil, err
		}
		pool, err := pgstore.NewPool(ctx, state.cfg.DatabaseURL, state.log)
		if err != nil {
			return nil, nil, err
		}
		return auth.NewPostgresUserRepository(pool), pool.Close, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(state.cfg.SQLitePath, state.log)
		if err != nil {
			return nil, nil, err
		}
		return auth.NewSQLiteUserRepository(db), func() { _ = db.Close() }, nil
	}

	return nil, nil, errMemoryDriver
}
