// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth owns the user accounts that may call the API.

Accounts carry a bcrypt password hash and one role. The HTTP layer verifies
Basic credentials through [Service.Authenticate]; accounts are provisioned by
the operator CLI or by the bootstrap admin at startup.
*/
package auth

import (
	"errors"
	"time"

	"github.com/taibuivan/animes/internal/platform/sec"
)

// # Domain Entities

// User is an account allowed to authenticate against the API.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
}

// ErrUserNotExist is returned by repositories when no account matches.
var ErrUserNotExist = errors.New("auth: user does not exist")

// ErrUsernameTaken is returned by repositories on a duplicate username.
var ErrUsernameTaken = errors.New("auth: username already taken")

// # Field Identifiers

const (
	FieldUsername = "username"
	FieldPassword = "password"
	FieldRole     = "role"
)

// # Constraints

const (
	MinUsernameLength = 3
	MaxUsernameLength = 64
)
