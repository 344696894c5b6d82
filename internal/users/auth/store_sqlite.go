// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/taibuivan/animes/internal/platform/database/schema"
	"github.com/taibuivan/animes/internal/platform/dberr"
	"github.com/taibuivan/animes/internal/platform/sqlite"
)

// SQLiteUserRepository stores accounts in the user_account table.
type SQLiteUserRepository struct {
	db *sqlite.DB
}

func NewSQLiteUserRepository(db *sqlite.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

func (repository *SQLiteUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	query, args, err := repository.db.Builder().
		Select(schema.LiteUserAccount.Columns()...).
		From(schema.LiteUserAccount.Table).
		Where(sq.Eq{schema.LiteUserAccount.Username: username}).
		ToSql()
	if err != nil {
		return nil, dberr.Wrap(err, "build_get_user")
	}

	user := &User{}
	err = repository.db.Handler().QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Role, &user.CreatedAt,
	)
	if dberr.IsNoRows(err) {
		return nil, ErrUserNotExist
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_user")
	}
	return user, nil
}

func (repository *SQLiteUserRepository) Create(ctx context.Context, user *User) error {
	query, args, err := repository.db.Builder().
		Insert(schema.LiteUserAccount.Table).
		Columns(schema.LiteUserAccount.Columns()...).
		Values(user.ID, user.Username, user.PasswordHash, string(user.Role), user.CreatedAt).
		ToSql()
	if err != nil {
		return dberr.Wrap(err, "build_create_user")
	}

	_, err = repository.db.Handler().ExecContext(ctx, query, args...)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrUsernameTaken
	}
	return dberr.Wrap(err, "create_user")
}
