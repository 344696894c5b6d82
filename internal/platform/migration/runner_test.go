// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPgx5DSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"postgres_scheme", "postgres://u:p@localhost:5432/animes", "pgx5://u:p@localhost:5432/animes"},
		{"postgresql_scheme", "postgresql://localhost/animes", "pgx5://localhost/animes"},
		{"already_pgx5", "pgx5://localhost/animes", "pgx5://localhost/animes"},
		{"keyword_dsn", "host=localhost dbname=animes", "host=localhost dbname=animes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toPgx5DSN(tt.dsn))
		})
	}
}

func TestDown_RejectsNonPositiveSteps(t *testing.T) {
	runner := NewRunner("postgres://localhost/animes", "./data/migrations", nil)
	assert.Error(t, runner.Down(0))
}
