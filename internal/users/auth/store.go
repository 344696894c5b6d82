// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {
	// FindByUsername returns ErrUserNotExist when no account has the username.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Create returns ErrUsernameTaken when the username is already in use.
	Create(ctx context.Context, user *User) error
}
