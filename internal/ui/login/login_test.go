// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package login

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/leavedesk-tui/internal/api"
	"github.com/jeranaias/leavedesk-tui/internal/session"
)

func TestSubmitRejectsBadEmailWithoutNetwork(t *testing.T) {
	// sessions is nil: any network attempt would panic, so a clean error
	// proves local validation ran first.
	m := New(nil)
	m.email.SetValue("not-an-email")
	m.password.SetValue("whatever")
	m.focus = focusSubmit

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Equal(t, session.ErrEmailInvalid.Error(), m.errMsg)
	require.False(t, m.busy)
}

func TestSubmitRequiresPassword(t *testing.T) {
	m := New(nil)
	m.email.SetValue("amy@corp.test")
	m.focus = focusSubmit

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Equal(t, session.ErrPasswordRequired.Error(), m.errMsg)
}

func TestSignupEnforcesPasswordPolicy(t *testing.T) {
	m := New(nil)
	m.switchMode(modeSignup)
	m.email.SetValue("boss@corp.test")
	m.password.SetValue("weak")
	m.confirm.SetValue("weak")
	m.focus = focusSubmit

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Equal(t, session.ErrPasswordWeak.Error(), m.errMsg)
}

func TestBackendFieldErrorsRenderedInline(t *testing.T) {
	m := New(nil)
	m, cmd := m.Update(resultMsg{err: &api.APIError{
		Status:  400,
		Message: "validation failed",
		Fields:  map[string]string{"email": "already registered"},
	}})
	require.Nil(t, cmd)

	view := m.View()
	require.Contains(t, view, "validation failed")
	require.Contains(t, view, "email: already registered")
}

func TestRoleToggle(t *testing.T) {
	m := New(nil)
	require.Equal(t, session.RoleEmployee, m.role)
	m.toggleRole()
	require.Equal(t, session.RoleManager, m.role)
	m.toggleRole()
	require.Equal(t, session.RoleEmployee, m.role)
}

func TestSignupModeForcesManagerRole(t *testing.T) {
	m := New(nil)
	m.role = session.RoleEmployee
	m.switchMode(modeSignup)
	require.Equal(t, session.RoleManager, m.role)
	// Mode switches clear entered secrets.
	require.Empty(t, m.password.Value())
	require.Empty(t, m.confirm.Value())
}
