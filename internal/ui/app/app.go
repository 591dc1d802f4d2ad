// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app provides the root Bubble Tea model. It owns navigation:
// every route change passes through the guard policy, and the session is
// restored exactly once before the first routed screen renders.
package app

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/leavedesk-tui/internal/guard"
	"github.com/jeranaias/leavedesk-tui/internal/leave"
	"github.com/jeranaias/leavedesk-tui/internal/session"
	"github.com/jeranaias/leavedesk-tui/internal/ui/approvals"
	"github.com/jeranaias/leavedesk-tui/internal/ui/history"
	"github.com/jeranaias/leavedesk-tui/internal/ui/leaveform"
	"github.com/jeranaias/leavedesk-tui/internal/ui/login"
	"github.com/jeranaias/leavedesk-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

type restoredMsg struct {
	session session.Session
}

// CalendarReloadedMsg is sent from outside the event loop when the holiday
// calendar file changes on disk; it triggers a repaint so duration
// previews reflect the new calendar.
type CalendarReloadedMsg struct{}

type logoutDoneMsg struct{}

const restoreTimeout = 30 * time.Second

// =============================================================================
// ROUTE REQUIREMENTS
// =============================================================================

// requirementFor declares the access rule for every route the app knows.
// Unknown routes get the strictest useful rule and fall through to login.
func requirementFor(route string) guard.Requirement {
	switch route {
	case guard.RouteLogin, guard.RouteSignup:
		return guard.GuestOnly()
	case guard.RouteEmployeeDashboard, guard.RouteApplyLeave, guard.RouteLeaveHistory:
		return guard.RequireRole(session.RoleEmployee)
	case guard.RouteManagerDashboard, guard.RouteApprovals:
		return guard.RequireRole(session.RoleManager)
	default:
		return guard.AnyAuthenticated()
	}
}

// =============================================================================
// APP MODEL
// =============================================================================

// App is the root model. It holds the active screen and re-evaluates the
// guard after every message, so a session that expires mid-screen bounces
// straight back to login.
type App struct {
	sessions *session.Manager
	holidays *leave.Calendar

	route string
	spin  spinner.Model

	loginScreen login.Model
	formScreen  leaveform.Model
	histScreen  history.Model
	apprScreen  approvals.Model
	dashboard   dashboardModel

	width  int
	height int
}

// New builds the root model. Navigation stays parked on a loading screen
// until the one-time session restore resolves.
func New(sessions *session.Manager, holidays *leave.Calendar) App {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.Focused
	return App{
		sessions: sessions,
		holidays: holidays,
		spin:     spin,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	sessions := a.sessions
	restore := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
		defer cancel()
		return restoredMsg{session: sessions.Restore(ctx)}
	}
	return tea.Batch(restore, a.spin.Tick)
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a.forward(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "esc":
			// Back to the role dashboard from any inner screen.
			if sess := a.sessions.Session(); sess.Authenticated() &&
				a.route != guard.RoleHome(sess.User.Role) {
				return a.navigate(guard.RoleHome(sess.User.Role))
			}
		}
		return a.forward(msg)

	case restoredMsg:
		// First routed screen: guests land on login, restored users on
		// their dashboard.
		return a.navigate(guard.RouteLogin)

	case spinner.TickMsg:
		if a.route == "" {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(msg)
			return a, cmd
		}
		return a.forward(msg)

	case login.LoggedInMsg:
		return a.navigate(guard.RoleHome(msg.Principal.Role))

	case login.RegisteredMsg:
		return a.forward(msg)

	case leaveform.SubmittedMsg:
		return a.navigate(guard.RouteLeaveHistory)

	case dashboardChoiceMsg:
		switch msg.choice {
		case choiceApply:
			return a.navigate(guard.RouteApplyLeave)
		case choiceHistory:
			return a.navigate(guard.RouteLeaveHistory)
		case choiceApprovals:
			return a.navigate(guard.RouteApprovals)
		case choiceLogout:
			return a, a.logoutCmd()
		}
		return a, nil

	case logoutDoneMsg:
		return a.navigate(guard.RouteLogin)

	case CalendarReloadedMsg:
		// The calendar pointer is shared; a repaint is all that's needed.
		return a, nil
	}

	return a.forward(msg)
}

// forward delivers a message to the active screen, then re-checks the
// guard. The re-check is what turns a forced logout (expired token during
// a fetch) into an immediate redirect.
func (a App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.route {
	case guard.RouteLogin, guard.RouteSignup:
		a.loginScreen, cmd = a.loginScreen.Update(msg)
	case guard.RouteApplyLeave:
		a.formScreen, cmd = a.formScreen.Update(msg)
	case guard.RouteLeaveHistory:
		a.histScreen, cmd = a.histScreen.Update(msg)
	case guard.RouteApprovals:
		a.apprScreen, cmd = a.apprScreen.Update(msg)
	case guard.RouteEmployeeDashboard, guard.RouteManagerDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	default:
		return a, nil
	}

	if a.route != "" {
		decision := guard.Decide(a.sessions.Session(), requirementFor(a.route))
		if !decision.Allowed && !decision.Defer {
			next, navCmd := a.navigate(decision.RedirectTo)
			return next, tea.Batch(cmd, navCmd)
		}
	}
	return a, cmd
}

// navigate routes to a screen, following guard redirects until a route is
// allowed. Redirect chains are short by construction (at most two hops).
func (a App) navigate(route string) (tea.Model, tea.Cmd) {
	sess := a.sessions.Session()
	for {
		decision := guard.Decide(sess, requirementFor(route))
		if decision.Defer {
			// Restore still in flight; stay on the loading screen.
			return a, nil
		}
		if decision.Allowed {
			break
		}
		route = decision.RedirectTo
	}

	a.route = route
	var cmd tea.Cmd
	switch route {
	case guard.RouteLogin, guard.RouteSignup:
		a.loginScreen = login.New(a.sessions)
		cmd = a.loginScreen.Init()
	case guard.RouteApplyLeave:
		a.formScreen = leaveform.New(a.sessions, a.holidays)
		cmd = a.formScreen.Init()
	case guard.RouteLeaveHistory:
		a.histScreen = history.New(a.sessions)
		cmd = a.histScreen.Init()
	case guard.RouteApprovals:
		a.apprScreen = approvals.New(a.sessions)
		cmd = a.apprScreen.Init()
	case guard.RouteEmployeeDashboard, guard.RouteManagerDashboard:
		a.dashboard = newDashboard(sess.User)
	}
	return a, cmd
}

func (a App) logoutCmd() tea.Cmd {
	sessions := a.sessions
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
		defer cancel()
		// Best-effort remote revocation; local state is cleared regardless.
		_ = sessions.Logout(ctx)
		return logoutDoneMsg{}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (a App) View() string {
	var body string
	switch a.route {
	case "":
		body = styles.Box.Render(a.spin.View() + " restoring session...")
	case guard.RouteLogin, guard.RouteSignup:
		body = a.loginScreen.View()
	case guard.RouteApplyLeave:
		body = a.formScreen.View()
	case guard.RouteLeaveHistory:
		body = a.histScreen.View()
	case guard.RouteApprovals:
		body = a.apprScreen.View()
	case guard.RouteEmployeeDashboard, guard.RouteManagerDashboard:
		body = a.dashboard.View()
	}

	if a.width > 0 && a.height > 0 {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, body)
	}
	return strings.TrimRight(body, "\n")
}
