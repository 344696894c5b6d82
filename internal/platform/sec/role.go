// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "strings"

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted catalogue access, including writes
	RoleAdmin UserRole = "ADMIN"

	// Read-only catalogue access
	RoleUser UserRole = "USER"
)

// ParseRole normalises a role name, accepting an optional "ROLE_" prefix.
// It returns false for unknown roles.
func ParseRole(raw string) (UserRole, bool) {
	name := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(raw)), "ROLE_")
	role := UserRole(name)
	if role.level() == 0 {
		return "", false
	}
	return role, true
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() > 0 && r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 40
	case RoleUser:
		return 10
	default:
		return 0
	}
}

// Roles lists every known role from least to most privileged.
func Roles() []UserRole {
	return []UserRole{RoleUser, RoleAdmin}
}
