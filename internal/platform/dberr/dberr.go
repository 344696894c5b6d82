// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/animes/internal/platform/apperr"
)

// IsNoRows reports whether err signals an empty single-row result from
// either pgx or database/sql.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

// Wrap classifies a driver error as an opaque [apperr.AppError] STORAGE_ERROR.
//
// The action label is folded into the cause for server-side logs only; the
// client sees the generic storage message.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// Already classified further down the stack.
	if apperr.IsAppError(err) {
		return err
	}

	return apperr.Storage(fmt.Errorf("%s: %w", action, err))
}

// IsTransient reports whether a PostgreSQL failure happened before any bytes
// reached the server, which makes re-sending the statement safe.
func IsTransient(err error) bool {
	return err != nil && pgconn.SafeToRetry(err)
}
