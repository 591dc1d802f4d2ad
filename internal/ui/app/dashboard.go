// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/leavedesk-tui/internal/session"
	"github.com/jeranaias/leavedesk-tui/internal/ui/styles"
)

// =============================================================================
// DASHBOARD
// =============================================================================
// The per-role landing screen: a short menu of the actions that role can
// take. Selection emits dashboardChoiceMsg; the app does the routing.

type dashboardChoice int

const (
	choiceApply dashboardChoice = iota
	choiceHistory
	choiceApprovals
	choiceLogout
)

type dashboardChoiceMsg struct {
	choice dashboardChoice
}

type menuItem struct {
	label  string
	choice dashboardChoice
}

type dashboardModel struct {
	user   *session.Principal
	items  []menuItem
	cursor int
}

func newDashboard(user *session.Principal) dashboardModel {
	var items []menuItem
	if user != nil && user.Role == session.RoleManager {
		items = []menuItem{
			{"Review Pending Requests", choiceApprovals},
			{"Log Out", choiceLogout},
		}
	} else {
		items = []menuItem{
			{"Apply for Leave", choiceApply},
			{"My Leave History", choiceHistory},
			{"Log Out", choiceLogout},
		}
	}
	return dashboardModel{user: user, items: items}
}

func (d dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	switch key.String() {
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.cursor < len(d.items)-1 {
			d.cursor++
		}
	case "enter":
		choice := d.items[d.cursor].choice
		return d, func() tea.Msg { return dashboardChoiceMsg{choice: choice} }
	}
	return d, nil
}

func (d dashboardModel) View() string {
	var b strings.Builder

	title := "Employee Dashboard"
	if d.user != nil && d.user.Role == session.RoleManager {
		title = "Manager Dashboard"
	}
	b.WriteString(styles.Title.Render(title))
	b.WriteString("\n")
	if d.user != nil {
		b.WriteString(styles.Label.Render(fmt.Sprintf("Signed in as %s", d.user.Email)))
	}
	b.WriteString("\n\n")

	for i, item := range d.items {
		if i == d.cursor {
			b.WriteString(styles.Focused.Render("> " + item.label))
		} else {
			b.WriteString(styles.Value.Render("  " + item.label))
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.Help.Render("up/down: navigate - enter: select - ctrl+c: quit"))
	return styles.Box.Render(b.String())
}
