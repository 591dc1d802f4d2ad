// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package guard decides, given the current session and a route's access
// requirement, whether navigation proceeds or gets redirected. It is pure
// policy: no I/O, no session mutation.
package guard

import (
	"github.com/jeranaias/leavedesk-tui/internal/session"
)

// =============================================================================
// ROUTES
// =============================================================================

// Route names mirror the screens the app can show.
const (
	RouteLogin             = "/login"
	RouteSignup            = "/manager/signup"
	RouteEmployeeDashboard = "/employee/dashboard"
	RouteManagerDashboard  = "/manager/dashboard"
	RouteApplyLeave        = "/employee/apply-leave"
	RouteLeaveHistory      = "/employee/history"
	RouteApprovals         = "/manager/approvals"
)

// RoleHome returns the landing route for a role. Every post-login and
// wrong-role redirect funnels through here so the mapping exists once.
func RoleHome(role session.Role) string {
	if role == session.RoleManager {
		return RouteManagerDashboard
	}
	return RouteEmployeeDashboard
}

// =============================================================================
// REQUIREMENTS
// =============================================================================

// Requirement is a route's declared access rule.
type Requirement struct {
	kind requirementKind
	role session.Role
}

type requirementKind int

const (
	kindPublic requirementKind = iota
	kindGuestOnly
	kindAnyAuthenticated
	kindRole
)

// Public routes admit everyone.
func Public() Requirement { return Requirement{kind: kindPublic} }

// GuestOnly routes (login, signup) bounce authenticated users to their
// role home instead of showing a login form to someone already in.
func GuestOnly() Requirement { return Requirement{kind: kindGuestOnly} }

// AnyAuthenticated admits any logged-in user regardless of role.
func AnyAuthenticated() Requirement { return Requirement{kind: kindAnyAuthenticated} }

// RequireRole admits only authenticated users with the given role.
func RequireRole(role session.Role) Requirement {
	return Requirement{kind: kindRole, role: role}
}

// =============================================================================
// DECISIONS
// =============================================================================

// Decision is the outcome of a guard check.
type Decision struct {
	// Allowed is true when navigation may proceed.
	Allowed bool

	// Defer is true while the session is still restoring; the caller must
	// hold its current screen and re-check once the session resolves.
	Defer bool

	// RedirectTo is the route to go to instead, when !Allowed && !Defer.
	RedirectTo string
}

func allow() Decision             { return Decision{Allowed: true} }
func deferred() Decision          { return Decision{Defer: true} }
func redirect(to string) Decision { return Decision{RedirectTo: to} }

// Decide evaluates a requirement against a session snapshot.
//
// The rules, in order: an unresolved session defers everything except
// public routes; guests are sent to login for protected routes; logged-in
// users are kept out of guest-only routes; a role mismatch redirects to
// the user's own dashboard rather than an error screen.
func Decide(sess session.Session, req Requirement) Decision {
	if req.kind == kindPublic {
		return allow()
	}

	if sess.IsLoading {
		return deferred()
	}

	switch req.kind {
	case kindGuestOnly:
		if sess.User != nil {
			return redirect(RoleHome(sess.User.Role))
		}
		return allow()

	case kindAnyAuthenticated:
		if sess.User == nil {
			return redirect(RouteLogin)
		}
		return allow()

	case kindRole:
		if sess.User == nil {
			return redirect(RouteLogin)
		}
		if sess.User.Role != req.role {
			return redirect(RoleHome(sess.User.Role))
		}
		return allow()
	}

	// Unreachable with the kinds above; fail closed.
	return redirect(RouteLogin)
}
