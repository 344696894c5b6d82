// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/animes/internal/platform/sec"
	"github.com/taibuivan/animes/internal/platform/sqlite"
	"github.com/taibuivan/animes/internal/users/auth"
)

func setStoreEnv(t *testing.T, driver string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "animes.db")
	t.Setenv("STORE_DRIVER", driver)
	t.Setenv("SQLITE_PATH", path)
	t.Setenv("CACHE_PROVIDER", "none")
	t.Setenv("BOOTSTRAP_ADMIN_USERNAME", "")
	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "")
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout bytes.Buffer
	root := newRootCommand(&stdout, io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func TestMigrate_SQLite(t *testing.T) {
	setStoreEnv(t, "sqlite")

	out, err := run(t, "migrate", "up")
	require.NoError(t, err)
	assert.Equal(t, "schema version 2\n", out)

	out, err = run(t, "migrate", "version")
	require.NoError(t, err)
	assert.Equal(t, "schema version 2\n", out)

	_, err = run(t, "migrate", "down", "--steps", "1")
	assert.ErrorContains(t, err, "forward-only")
}

func TestUserCreate_SQLite(t *testing.T) {
	path := setStoreEnv(t, "sqlite")

	out, err := run(t, "user", "create", "--username", "operator", "--password", "long-enough", "--role", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "created user operator (ADMIN)")

	db, err := sqlite.Open(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	user, err := auth.NewSQLiteUserRepository(db).FindByUsername(context.Background(), "operator")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, user.Role)
	assert.True(t, sec.CheckPasswordHash("long-enough", user.PasswordHash))

	_, err = run(t, "user", "create", "--username", "operator", "--password", "long-enough")
	assert.ErrorContains(t, err, "Username is already taken")
}

func TestUserCreate_RejectsInvalidInput(t *testing.T) {
	setStoreEnv(t, "sqlite")

	_, err := run(t, "user", "create", "--username", "operator", "--password", "short")
	assert.Error(t, err)

	_, err = run(t, "user", "create", "--username", "operator", "--password", "long-enough", "--role", "root")
	assert.Error(t, err)

	_, err = run(t, "user", "create", "--password", "long-enough")
	assert.ErrorContains(t, err, "username")
}

func TestMemoryDriverIsRejected(t *testing.T) {
	setStoreEnv(t, "memory")

	_, err := run(t, "migrate", "up")
	assert.ErrorIs(t, err, errMemoryDriver)

	_, err = run(t, "user", "create", "--username", "operator", "--password", "long-enough")
	assert.ErrorIs(t, err, errMemoryDriver)
}
