// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the authenticated-user lifecycle: login, logout,
// restoration on startup, and credential persistence. It is the single
// source of truth for "who is logged in"; tokens never leave this package.
package session

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// ROLES AND PRINCIPALS
// =============================================================================

// Role determines route access and which dashboard a user lands on.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

// ParseRole narrows a backend user_type string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleEmployee, RoleManager:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Principal is an authenticated identity with a resolved role.
type Principal struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// encodePrincipal serializes a principal for the credential store.
func encodePrincipal(p Principal) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to encode principal: %w", err)
	}
	return string(data), nil
}

// =============================================================================
// SESSION STATE
// =============================================================================

// Session is the client's current view of authentication state. It is a
// value snapshot: holders see a consistent user+loading pair, never a
// partially populated principal.
type Session struct {
	// User is the authenticated principal, or nil when anonymous.
	User *Principal

	// IsLoading is true from process start until the one-time restore
	// completes. While it is set, no navigation decision may be made.
	IsLoading bool
}

// Anonymous reports whether the session is resolved and has no user.
func (s Session) Anonymous() bool {
	return !s.IsLoading && s.User == nil
}

// Authenticated reports whether the session is resolved with a user.
func (s Session) Authenticated() bool {
	return !s.IsLoading && s.User != nil
}
