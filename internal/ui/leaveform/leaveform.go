// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package leaveform provides the leave application screen. The duration
// field is read-only and recomputed from the dates on every edit; users
// can never type a day count.
package leaveform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/leavedesk-tui/internal/api"
	"github.com/jeranaias/leavedesk-tui/internal/leave"
	"github.com/jeranaias/leavedesk-tui/internal/session"
	"github.com/jeranaias/leavedesk-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// SubmittedMsg is emitted after the backend accepts the application; the
// app routes to the history screen.
type SubmittedMsg struct{}

type resultMsg struct {
	err error
}

// =============================================================================
// MODEL
// =============================================================================

const (
	focusType = iota
	focusStart
	focusEnd
	focusReason
	focusSubmit
	focusCount
)

const submitTimeout = 30 * time.Second

// Model is the Bubble Tea model for the leave application form.
type Model struct {
	sessions *session.Manager
	holidays *leave.Calendar

	focus   int
	typeIdx int

	start  textinput.Model
	end    textinput.Model
	reason textarea.Model
	spin   spinner.Model

	busy       bool
	errMsg     string
	errDetails []string
}

// New builds an empty application form.
func New(sessions *session.Manager, holidays *leave.Calendar) Model {
	start := dateInput("start date")
	end := dateInput("end date")

	reason := textarea.New()
	reason.Placeholder = "reason for leave (at least 10 characters)"
	reason.CharLimit = 500
	reason.SetWidth(44)
	reason.SetHeight(3)
	reason.ShowLineNumbers = false

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.Focused

	m := Model{
		sessions: sessions,
		holidays: holidays,
		focus:    focusType,
		start:    start,
		end:      end,
		reason:   reason,
		spin:     spin,
	}
	return m
}

func dateInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder + " (YYYY-MM-DD)"
	in.CharLimit = 10
	in.Width = 24
	return in
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// DURATION PREVIEW
// =============================================================================

// Duration returns the working-day count for the currently entered dates,
// or false when either date does not parse yet.
func (m Model) Duration() (int64, bool) {
	start, err := leave.ParseDate(strings.TrimSpace(m.start.Value()))
	if err != nil {
		return 0, false
	}
	end, err := leave.ParseDate(strings.TrimSpace(m.end.Value()))
	if err != nil {
		return 0, false
	}
	return leave.WorkingDays(start, end, m.holidays), true
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case resultMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			m.errDetails = api.ErrorDetails(msg.err)
			return m, nil
		}
		return m, func() tea.Msg { return SubmittedMsg{} }

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case "shift+tab":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	case "left", "right":
		if m.focus == focusType {
			m.cycleType()
			return m, nil
		}
	case "enter":
		if m.focus == focusSubmit {
			return m.submit()
		}
		if m.focus != focusReason {
			m.setFocus((m.focus + 1) % focusCount)
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusType:
		if msg.String() == " " {
			m.cycleType()
		}
	case focusStart:
		m.start, cmd = m.start.Update(msg)
	case focusEnd:
		m.end, cmd = m.end.Update(msg)
	case focusReason:
		m.reason, cmd = m.reason.Update(msg)
	}
	return m, cmd
}

func (m *Model) cycleType() {
	m.typeIdx = (m.typeIdx + 1) % len(leave.Types())
}

func (m *Model) setFocus(f int) {
	m.focus = f
	m.start.Blur()
	m.end.Blur()
	m.reason.Blur()
	switch f {
	case focusStart:
		m.start.Focus()
	case focusEnd:
		m.end.Focus()
	case focusReason:
		m.reason.Focus()
	}
}

// =============================================================================
// SUBMIT
// =============================================================================

func (m Model) submit() (Model, tea.Cmd) {
	m.errDetails = nil
	req := leave.Request{
		Type:   leave.Types()[m.typeIdx],
		Reason: m.reason.Value(),
	}
	if v := strings.TrimSpace(m.start.Value()); v != "" {
		start, err := leave.ParseDate(v)
		if err != nil {
			m.errMsg = "start date must be YYYY-MM-DD"
			return m, nil
		}
		req.StartDate = start
	}
	if v := strings.TrimSpace(m.end.Value()); v != "" {
		end, err := leave.ParseDate(v)
		if err != nil {
			m.errMsg = "end date must be YYYY-MM-DD"
			return m, nil
		}
		req.EndDate = end
	}

	// Validate recomputes the duration; the wire request is built from the
	// validated value, never from anything user-editable.
	if err := req.Validate(m.holidays); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	m.errMsg = ""
	m.busy = true

	sessions := m.sessions
	wire := api.ApplyLeaveRequest{
		LeaveType: string(req.Type),
		Reason:    strings.TrimSpace(req.Reason),
		StartDate: leave.FormatDate(req.StartDate),
		EndDate:   leave.FormatDate(req.EndDate),
		Duration:  req.DurationDays,
	}
	cmd := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		return resultMsg{err: sessions.ApplyLeave(ctx, wire)}
	}
	return m, tea.Batch(cmd, m.spin.Tick)
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Apply for Leave"))
	b.WriteString("\n")

	b.WriteString(m.typeLine())
	b.WriteString(fieldLine("Start", m.start.View(), m.focus == focusStart))
	b.WriteString(fieldLine("End", m.end.View(), m.focus == focusEnd))

	// The computed working-day count, updated live as the dates change.
	if days, ok := m.Duration(); ok {
		b.WriteString("  " + styles.Label.Render(fmt.Sprintf("%-9s", "Duration")) +
			styles.Value.Render(fmt.Sprintf("%d working day(s)", days)) + "\n")
	} else {
		b.WriteString("  " + styles.Label.Render(fmt.Sprintf("%-9s", "Duration")) +
			lipgloss.NewStyle().Foreground(styles.TextMuted).Render("enter both dates") + "\n")
	}

	marker := "  "
	if m.focus == focusReason {
		marker = "> "
	}
	b.WriteString(marker + styles.Label.Render("Reason") + "\n")
	b.WriteString(m.reason.View() + "\n")

	b.WriteString("\n")
	if m.busy {
		b.WriteString(m.spin.View() + " submitting...")
	} else if m.focus == focusSubmit {
		b.WriteString(styles.Focused.Render("[ Submit Application ]"))
	} else {
		b.WriteString(styles.Label.Render("[ Submit Application ]"))
	}
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n" + styles.RenderError(m.errMsg) + "\n")
		for _, detail := range m.errDetails {
			b.WriteString(styles.FieldErrorText.Render("    "+detail) + "\n")
		}
	}

	b.WriteString(styles.Help.Render("tab: next field - space: change type - esc: back - ctrl+c: quit"))
	return styles.Box.Render(b.String())
}

func (m Model) typeLine() string {
	marker := "  "
	if m.focus == focusType {
		marker = "> "
	}
	label := leave.Types()[m.typeIdx].Label()
	style := styles.Value
	if m.focus == focusType {
		style = styles.Focused
	}
	return marker + styles.Label.Render(fmt.Sprintf("%-9s", "Type")) + style.Render("< "+label+" >") + "\n"
}

func fieldLine(label, input string, focused bool) string {
	marker := "  "
	if focused {
		marker = "> "
	}
	return marker + styles.Label.Render(fmt.Sprintf("%-9s", label)) + input + "\n"
}
