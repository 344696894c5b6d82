// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sqlite_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/animes/internal/platform/sqlite"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpen_MigratesToLatest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "animes.db")

	db, err := sqlite.Open(path, discard())
	require.NoError(t, err)

	version, err := db.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	for _, table := range []string{"anime", "user_account"} {
		var name string
		err := db.Handler().QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	require.NoError(t, db.Ping(context.Background()))
	require.NoError(t, db.Close())
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "animes.db")

	first, err := sqlite.Open(path, discard())
	require.NoError(t, err)
	_, err = first.Handler().Exec(`INSERT INTO anime (name) VALUES ('Naruto')`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := sqlite.Open(path, discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	var count int
	require.NoError(t, second.Handler().QueryRow(`SELECT COUNT(*) FROM anime`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestOpen_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "animes.db")

	db, err := sqlite.Open(path, discard())
	require.NoError(t, err)
	_, err = db.Handler().Exec(`PRAGMA user_version = 99`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = sqlite.Open(path, discard())
	assert.ErrorContains(t, err, "newer than supported")
}

func TestSchema_RejectsBlankName(t *testing.T) {
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "animes.db"), discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Handler().Exec(`INSERT INTO anime (name) VALUES ('   ')`)
	assert.Error(t, err)
}
