// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history provides the leave history table for the logged-in user.
package history

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/leavedesk-tui/internal/api"
	"github.com/jeranaias/leavedesk-tui/internal/leave"
	"github.com/jeranaias/leavedesk-tui/internal/session"
	"github.com/jeranaias/leavedesk-tui/internal/ui/styles"
	"github.com/jeranaias/leavedesk-tui/internal/util"
)

// =============================================================================
// MESSAGES
// =============================================================================

type loadedMsg struct {
	records []api.LeaveRecord
	err     error
}

const loadTimeout = 30 * time.Second

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the leave history screen.
type Model struct {
	sessions *session.Manager

	table   table.Model
	spin    spinner.Model
	loading bool
	errMsg  string
	empty   bool
}

// New builds the history screen; records load on Init.
func New(sessions *session.Manager) Model {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Type", Width: 13},
		{Title: "Start", Width: 11},
		{Title: "End", Width: 11},
		{Title: "Days", Width: 5},
		{Title: "Status", Width: 9},
		{Title: "Reason", Width: 28},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.Foreground(styles.Cyan).Bold(true).BorderForeground(styles.Overlay)
	st.Selected = st.Selected.Foreground(styles.TextPrimary).Background(styles.Overlay)
	t.SetStyles(st)

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.Focused

	return Model{sessions: sessions, table: t, spin: spin, loading: true}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.spin.Tick)
}

func (m Model) loadCmd() tea.Cmd {
	sessions := m.sessions
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		records, err := sessions.LeaveHistory(ctx)
		return loadedMsg{records: records, err: err}
	}
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case loadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.empty = len(msg.records) == 0
		m.table.SetRows(recordRows(msg.records))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "r" && !m.loading {
			m.loading = true
			return m, tea.Batch(m.loadCmd(), m.spin.Tick)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func recordRows(records []api.LeaveRecord) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			strconv.Itoa(r.ID),
			leave.Type(r.LeaveType).Label(),
			r.StartDate,
			r.EndDate,
			strconv.FormatInt(r.Duration, 10),
			leave.Status(r.Status).Label(),
			util.TruncateWidth(r.Reason, 28),
		})
	}
	return rows
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	header := styles.Title.Render("My Leave History") + "\n"

	if m.loading {
		return styles.Box.Render(header + m.spin.View() + " loading...")
	}
	if m.errMsg != "" {
		return styles.Box.Render(header + styles.RenderError(m.errMsg) + "\n" +
			styles.Help.Render("r: retry - esc: back"))
	}
	if m.empty {
		return styles.Box.Render(header + styles.Value.Render("No leave requests yet.") + "\n" +
			styles.Help.Render("r: refresh - esc: back"))
	}
	return styles.Box.Render(header + m.table.View() + "\n" +
		styles.Help.Render("up/down: navigate - r: refresh - esc: back - ctrl+c: quit"))
}
