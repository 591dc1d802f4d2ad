// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package approvals provides the manager review screen: the queue of
// pending leave requests with approve/reject actions.
package approvals

import (
	"context"
	"fmt"
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

type reviewedMsg struct {
	id       int
	approved bool
	err      error
}

const opTimeout = 30 * time.Second

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the manager approvals screen.
type Model struct {
	sessions *session.Manager

	table   table.Model
	spin    spinner.Model
	records []api.LeaveRecord
	loading bool
	busy    bool
	errMsg  string
	notice  string
}

// New builds the approvals screen; the pending queue loads on Init.
func New(sessions *session.Manager) Model {
	columns := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Employee", Width: 18},
		{Title: "Type", Width: 13},
		{Title: "Start", Width: 11},
		{Title: "End", Width: 11},
		{Title: "Days", Width: 5},
		{Title: "Reason", Width: 24},
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
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		records, err := sessions.PendingRequests(ctx)
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
		if !m.loading && !m.busy {
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
		m.records = msg.records
		m.table.SetRows(recordRows(msg.records))
		return m, nil

	case reviewedMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		verdict := "rejected"
		if msg.approved {
			verdict = "approved"
		}
		m.notice = fmt.Sprintf("Request #%d %s", msg.id, verdict)
		// Reload so the reviewed request leaves the queue.
		m.loading = true
		return m, tea.Batch(m.loadCmd(), m.spin.Tick)

	case tea.KeyMsg:
		if m.loading || m.busy {
			return m, nil
		}
		switch msg.String() {
		case "r":
			m.loading = true
			m.notice = ""
			return m, tea.Batch(m.loadCmd(), m.spin.Tick)
		case "a":
			return m.review(true)
		case "x":
			return m.review(false)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) review(approve bool) (Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.records) {
		return m, nil
	}
	id := m.records[idx].ID
	m.busy = true
	m.notice = ""

	sessions := m.sessions
	cmd := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		var err error
		if approve {
			err = sessions.Approve(ctx, id)
		} else {
			err = sessions.Reject(ctx, id)
		}
		return reviewedMsg{id: id, approved: approve, err: err}
	}
	return m, tea.Batch(cmd, m.spin.Tick)
}

func recordRows(records []api.LeaveRecord) []table.Row {
	rows := make([]table.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, table.Row{
			strconv.Itoa(r.ID),
			util.TruncateWidth(r.Employee, 18),
			leave.Type(r.LeaveType).Label(),
			r.StartDate,
			r.EndDate,
			strconv.FormatInt(r.Duration, 10),
			util.TruncateWidth(r.Reason, 24),
		})
	}
	return rows
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	header := styles.Title.Render("Pending Leave Requests") + "\n"

	if m.loading {
		return styles.Box.Render(header + m.spin.View() + " loading...")
	}
	if m.busy {
		return styles.Box.Render(header + m.table.View() + "\n" + m.spin.View() + " submitting review...")
	}

	var footer string
	if m.errMsg != "" {
		footer = styles.RenderError(m.errMsg) + "\n"
	}
	if m.notice != "" {
		footer += styles.RenderSuccess(m.notice) + "\n"
	}

	if len(m.records) == 0 {
		return styles.Box.Render(header + styles.Value.Render("Nothing waiting for review.") + "\n" + footer +
			styles.Help.Render("r: refresh - esc: back"))
	}
	return styles.Box.Render(header + m.table.View() + "\n" + footer +
		styles.Help.Render("a: approve - x: reject - r: refresh - esc: back - ctrl+c: quit"))
}
