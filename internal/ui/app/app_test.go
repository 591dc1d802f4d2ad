// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/leavedesk-tui/internal/api"
	"github.com/jeranaias/leavedesk-tui/internal/credstore"
	"github.com/jeranaias/leavedesk-tui/internal/guard"
	"github.com/jeranaias/leavedesk-tui/internal/security"
	"github.com/jeranaias/leavedesk-tui/internal/session"
)

// newSessions builds a session manager over a stub backend that accepts
// any login and reports the given role.
func newSessions(t *testing.T, role session.Role) *session.Manager {
	t.Helper()

	dir := t.TempDir()
	store, err := credstore.Open(filepath.Join(dir, "credentials.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	crypto, err := security.NewEncryptionManager(security.NewFileKeyStore(filepath.Join(dir, "master.key")))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"tokens": map[string]string{"access": "acc", "refresh": "ref"},
			"user":   map[string]any{"id": 1, "email": "u@corp.test", "user_type": string(role)},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return session.NewManager(api.NewClient(server.URL).WithMaxRetries(1), store, crypto)
}

func TestNavigateAnonymousLandsOnLogin(t *testing.T) {
	sessions := newSessions(t, session.RoleEmployee)
	sessions.Restore(context.Background()) // empty store: anonymous

	a := New(sessions, nil)
	model, _ := a.navigate(guard.RouteApplyLeave)
	require.Equal(t, guard.RouteLogin, model.(App).route)
}

func TestNavigateDefersWhileRestoring(t *testing.T) {
	sessions := newSessions(t, session.RoleEmployee)
	// No Restore call: the session is still loading.

	a := New(sessions, nil)
	model, _ := a.navigate(guard.RouteApplyLeave)
	require.Equal(t, "", model.(App).route, "navigation must hold until restore resolves")
}

func TestNavigateWrongRoleRedirectsHome(t *testing.T) {
	sessions := newSessions(t, session.RoleEmployee)
	sessions.Restore(context.Background())
	_, err := sessions.Login(context.Background(), "u@corp.test", "pw", session.RoleEmployee)
	require.NoError(t, err)

	a := New(sessions, nil)
	model, _ := a.navigate(guard.RouteApprovals)
	require.Equal(t, guard.RouteEmployeeDashboard, model.(App).route)
}

func TestNavigateGuestOnlyRedirectsAuthenticated(t *testing.T) {
	sessions := newSessions(t, session.RoleManager)
	sessions.Restore(context.Background())
	_, err := sessions.Login(context.Background(), "m@corp.test", "pw", session.RoleManager)
	require.NoError(t, err)

	a := New(sessions, nil)
	model, _ := a.navigate(guard.RouteLogin)
	require.Equal(t, guard.RouteManagerDashboard, model.(App).route)
}
