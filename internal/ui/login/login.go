// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package login provides the sign-in and manager sign-up screens.
package login

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/leavedesk-tui/internal/api"
	"github.com/jeranaias/leavedesk-tui/internal/session"
	"github.com/jeranaias/leavedesk-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// LoggedInMsg is emitted when authentication succeeds; the app routes the
// user to their role home.
type LoggedInMsg struct {
	Principal *session.Principal
}

// RegisteredMsg is emitted when manager sign-up succeeds. The session is
// untouched; the user still has to log in.
type RegisteredMsg struct {
	Email string
}

type resultMsg struct {
	principal  *session.Principal
	registered bool
	err        error
}

// =============================================================================
// MODEL
// =============================================================================

type mode int

const (
	modeLogin mode = iota
	modeSignup
)

// Focus order within the form.
const (
	focusRole = iota
	focusEmail
	focusPassword
	focusConfirm // signup only
	focusSubmit
)

const submitTimeout = 30 * time.Second

// Model is the Bubble Tea model for the login/signup screen.
type Model struct {
	sessions *session.Manager

	mode  mode
	role  session.Role
	focus int

	email    textinput.Model
	password textinput.Model
	confirm  textinput.Model
	spin     spinner.Model

	busy       bool
	errMsg     string
	errDetails []string
	notice     string

	width int
}

// New builds the screen in login mode with the employee role selected.
func New(sessions *session.Manager) Model {
	email := textinput.New()
	email.Placeholder = "you@company.com"
	email.CharLimit = 254
	email.Width = 34

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.CharLimit = 128
	password.Width = 34

	confirm := textinput.New()
	confirm.Placeholder = "confirm password"
	confirm.EchoMode = textinput.EchoPassword
	confirm.EchoCharacter = '*'
	confirm.CharLimit = 128
	confirm.Width = 34

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styles.Focused

	m := Model{
		sessions: sessions,
		role:     session.RoleEmployee,
		focus:    focusEmail,
		email:    email,
		password: password,
		confirm:  confirm,
		spin:     spin,
	}
	m.email.Focus()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

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
		if msg.registered {
			email := strings.TrimSpace(m.email.Value())
			m.switchMode(modeLogin)
			m.notice = "Account created. Sign in to continue."
			return m, func() tea.Msg { return RegisteredMsg{Email: email} }
		}
		return m, func() tea.Msg { return LoggedInMsg{Principal: msg.principal} }

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
	case "tab", "down":
		m.setFocus(m.nextFocus(1))
		return m, nil
	case "shift+tab", "up":
		m.setFocus(m.nextFocus(-1))
		return m, nil
	case "left", "right":
		if m.focus == focusRole && m.mode == modeLogin {
			m.toggleRole()
			return m, nil
		}
	case "ctrl+s":
		// Switch between login and manager sign-up.
		if m.mode == modeLogin {
			m.switchMode(modeSignup)
		} else {
			m.switchMode(modeLogin)
		}
		return m, nil
	case "enter":
		if m.focus == focusSubmit ||
			(m.focus == focusPassword && m.mode == modeLogin) ||
			(m.focus == focusConfirm && m.mode == modeSignup) {
			return m.submit()
		}
		m.setFocus(m.nextFocus(1))
		return m, nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusEmail:
		m.email, cmd = m.email.Update(msg)
	case focusPassword:
		m.password, cmd = m.password.Update(msg)
	case focusConfirm:
		m.confirm, cmd = m.confirm.Update(msg)
	case focusRole:
		if msg.String() == " " {
			m.toggleRole()
		}
	}
	return m, cmd
}

func (m *Model) toggleRole() {
	if m.role == session.RoleEmployee {
		m.role = session.RoleManager
	} else {
		m.role = session.RoleEmployee
	}
}

func (m *Model) switchMode(target mode) {
	m.mode = target
	m.errMsg = ""
	m.errDetails = nil
	m.notice = ""
	m.password.SetValue("")
	m.confirm.SetValue("")
	if target == modeSignup {
		// Sign-up creates manager accounts only.
		m.role = session.RoleManager
		m.setFocus(focusEmail)
	} else {
		m.setFocus(focusEmail)
	}
}

func (m *Model) nextFocus(dir int) int {
	order := []int{focusRole, focusEmail, focusPassword, focusSubmit}
	if m.mode == modeSignup {
		order = []int{focusEmail, focusPassword, focusConfirm, focusSubmit}
	}
	idx := 0
	for i, f := range order {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(order)) % len(order)
	return order[idx]
}

func (m *Model) setFocus(f int) {
	m.focus = f
	m.email.Blur()
	m.password.Blur()
	m.confirm.Blur()
	switch f {
	case focusEmail:
		m.email.Focus()
	case focusPassword:
		m.password.Focus()
	case focusConfirm:
		m.confirm.Focus()
	}
}

// =============================================================================
// SUBMIT
// =============================================================================

func (m Model) submit() (Model, tea.Cmd) {
	m.errDetails = nil
	email := strings.TrimSpace(m.email.Value())
	password := m.password.Value()

	if m.mode == modeSignup {
		if err := session.ValidateSignup(email, password, m.confirm.Value()); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
	} else {
		if err := session.ValidateEmail(email); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		if password == "" {
			m.errMsg = session.ErrPasswordRequired.Error()
			return m, nil
		}
	}

	m.errMsg = ""
	m.notice = ""
	m.busy = true

	sessions := m.sessions
	role := m.role
	signup := m.mode == modeSignup
	cmd := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		if signup {
			if err := sessions.Register(ctx, email, password); err != nil {
				return resultMsg{err: err}
			}
			return resultMsg{registered: true}
		}
		principal, err := sessions.Login(ctx, email, password, role)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{principal: principal}
	}
	return m, tea.Batch(cmd, m.spin.Tick)
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	if m.mode == modeSignup {
		b.WriteString(styles.Title.Render("Create Manager Account"))
	} else {
		b.WriteString(styles.Title.Render("LeaveDesk Sign In"))
	}
	b.WriteString("\n")

	if m.mode == modeLogin {
		b.WriteString(m.roleLine())
		b.WriteString("\n")
	}

	b.WriteString(fieldLine("Email", m.email.View(), m.focus == focusEmail))
	b.WriteString(fieldLine("Password", m.password.View(), m.focus == focusPassword))
	if m.mode == modeSignup {
		b.WriteString(fieldLine("Confirm", m.confirm.View(), m.focus == focusConfirm))
	}

	b.WriteString("\n")
	if m.busy {
		b.WriteString(m.spin.View() + " signing in...")
	} else {
		label := "[ Sign In ]"
		if m.mode == modeSignup {
			label = "[ Create Account ]"
		}
		if m.focus == focusSubmit {
			b.WriteString(styles.Focused.Render(label))
		} else {
			b.WriteString(styles.Label.Render(label))
		}
	}
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n" + styles.RenderError(m.errMsg) + "\n")
		for _, detail := range m.errDetails {
			b.WriteString(styles.FieldErrorText.Render("    "+detail) + "\n")
		}
	}
	if m.notice != "" {
		b.WriteString("\n" + styles.RenderSuccess(m.notice) + "\n")
	}

	help := "tab: next field - enter: submit - ctrl+s: manager sign-up - ctrl+c: quit"
	if m.mode == modeSignup {
		help = "tab: next field - enter: submit - ctrl+s: back to sign-in - ctrl+c: quit"
	}
	b.WriteString(styles.Help.Render(help))

	return styles.Box.Render(b.String())
}

func (m Model) roleLine() string {
	render := func(role session.Role, label string) string {
		if m.role == role {
			return styles.Focused.Render("(o) " + label)
		}
		return styles.Label.Render("( ) " + label)
	}
	line := fmt.Sprintf("%s  %s", render(session.RoleEmployee, "Employee"), render(session.RoleManager, "Manager"))
	marker := "  "
	if m.focus == focusRole {
		marker = "> "
	}
	return marker + line + "\n"
}

func fieldLine(label, input string, focused bool) string {
	marker := "  "
	if focused {
		marker = "> "
	}
	return marker + styles.Label.Render(fmt.Sprintf("%-9s", label)) + input + "\n"
}
