// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

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
	"github.com/jeranaias/leavedesk-tui/internal/security"
)

// =============================================================================
// FIXTURES
// =============================================================================

type fixture struct {
	manager *Manager
	store   *credstore.Store
	crypto  *security.EncryptionManager
	server  *httptest.Server
}

// newFixture wires a manager against a stub backend with an isolated
// credential store and a fresh encryption key.
func newFixture(t *testing.T, handler http.Handler) *fixture {
	t.Helper()

	dir := t.TempDir()
	store, err := credstore.Open(filepath.Join(dir, "credentials.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	crypto, err := security.NewEncryptionManager(security.NewFileKeyStore(filepath.Join(dir, "master.key")))
	require.NoError(t, err)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := api.NewClient(server.URL).WithMaxRetries(1)
	return &fixture{
		manager: NewManager(client, store, crypto),
		store:   store,
		crypto:  crypto,
		server:  server,
	}
}

func authBackend(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "Secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"tokens": map[string]string{"access": "acc-token-1", "refresh": "ref-token-1"},
			"user":   map[string]any{"id": 7, "email": body["email"], "user_type": body["userType"]},
		})
	})
	mux.HandleFunc("/auth/user/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer acc-token-1" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "token invalid"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": 7, "email": "amy@corp.test", "user_type": "employee"})
	})
	mux.HandleFunc("/auth/logout/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// =============================================================================
// RESTORE
// =============================================================================

func TestRestoreEmptyStoreIsAnonymous(t *testing.T) {
	f := newFixture(t, authBackend(t))

	require.True(t, f.manager.Session().IsLoading)
	sess := f.manager.Restore(context.Background())
	require.False(t, sess.IsLoading)
	require.Nil(t, sess.User)
	require.True(t, sess.Anonymous())
}

func TestRestoreValidTokenRebuildsSession(t *testing.T) {
	f := newFixture(t, authBackend(t))

	enc, err := f.crypto.EncryptString("acc-token-1")
	require.NoError(t, err)
	require.NoError(t, f.store.Set(credstore.KeyAccessToken, enc))

	sess := f.manager.Restore(context.Background())
	require.True(t, sess.Authenticated())
	require.Equal(t, "amy@corp.test", sess.User.Email)
	require.Equal(t, RoleEmployee, sess.User.Role)
}

func TestRestoreUndecryptableTokenWipesStore(t *testing.T) {
	f := newFixture(t, authBackend(t))

	// A value with the right prefix but garbage ciphertext.
	require.NoError(t, f.store.Set(credstore.KeyAccessToken, security.EncryptedPrefix+"bm90LXJlYWwtY2lwaGVydGV4dA=="))
	require.NoError(t, f.store.Set(credstore.KeyRefreshToken, security.EncryptedPrefix+"anVuaw=="))

	sess := f.manager.Restore(context.Background())
	require.True(t, sess.Anonymous())

	_, ok, err := f.store.Get(credstore.KeyAccessToken)
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = f.store.Get(credstore.KeyRefreshToken)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRestoreRejectedTokenWipesStore(t *testing.T) {
	f := newFixture(t, authBackend(t))

	enc, err := f.crypto.EncryptString("stale-token")
	require.NoError(t, err)
	require.NoError(t, f.store.Set(credstore.KeyAccessToken, enc))

	sess := f.manager.Restore(context.Background())
	require.True(t, sess.Anonymous())

	_, ok, err := f.store.Get(credstore.KeyAccessToken)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRestoreRunsOnce(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/user/", func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]any{"id": 7, "email": "amy@corp.test", "user_type": "employee"})
	})
	f := newFixture(t, mux)

	enc, err := f.crypto.EncryptString("acc-token-1")
	require.NoError(t, err)
	require.NoError(t, f.store.Set(credstore.KeyAccessToken, enc))

	first := f.manager.Restore(context.Background())
	second := f.manager.Restore(context.Background())
	require.Equal(t, first, second)
	require.Equal(t, 1, calls)
}

// =============================================================================
// LOGIN / LOGOUT
// =============================================================================

func TestLoginPersistsEncryptedTokens(t *testing.T) {
	f := newFixture(t, authBackend(t))
	f.manager.Restore(context.Background())

	principal, err := f.manager.Login(context.Background(), "amy@corp.test", "Secret1", RoleEmployee)
	require.NoError(t, err)
	require.Equal(t, RoleEmployee, principal.Role)
	require.True(t, f.manager.Session().Authenticated())

	stored, ok, err := f.store.Get(credstore.KeyAccessToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEqual(t, "acc-token-1", stored)

	plain, err := f.crypto.DecryptString(stored)
	require.NoError(t, err)
	require.Equal(t, "acc-token-1", plain)
}

func TestLoginFailureLeavesEverythingUntouched(t *testing.T) {
	f := newFixture(t, authBackend(t))
	f.manager.Restore(context.Background())

	_, err := f.manager.Login(context.Background(), "amy@corp.test", "wrong", RoleEmployee)
	require.Error(t, err)

	require.True(t, f.manager.Session().Anonymous())
	_, ok, serr := f.store.Get(credstore.KeyAccessToken)
	require.NoError(t, serr)
	require.False(t, ok)
}

func TestLogoutClearsLocallyEvenIfRemoteFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login/", authBackendLogin)
	mux.HandleFunc("/auth/logout/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	f := newFixture(t, mux)
	f.manager.Restore(context.Background())

	_, err := f.manager.Login(context.Background(), "amy@corp.test", "Secret1", RoleEmployee)
	require.NoError(t, err)

	err = f.manager.Logout(context.Background())
	require.Error(t, err) // advisory only

	require.True(t, f.manager.Session().Anonymous())
	_, ok, serr := f.store.Get(credstore.KeyRefreshToken)
	require.NoError(t, serr)
	require.False(t, ok)
}

func authBackendLogin(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	json.NewDecoder(r.Body).Decode(&body)
	json.NewEncoder(w).Encode(map[string]any{
		"tokens": map[string]string{"access": "acc-token-1", "refresh": "ref-token-1"},
		"user":   map[string]any{"id": 7, "email": body["email"], "user_type": body["userType"]},
	})
}

// =============================================================================
// AUTHORIZED OPERATIONS
// =============================================================================

func TestAuthorizedCallRequiresLogin(t *testing.T) {
	f := newFixture(t, authBackend(t))
	f.manager.Restore(context.Background())

	_, err := f.manager.LeaveHistory(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestExpiredTokenForcesLogout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login/", authBackendLogin)
	mux.HandleFunc("/api/leave-history/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "token expired"})
	})
	f := newFixture(t, mux)
	f.manager.Restore(context.Background())

	_, err := f.manager.Login(context.Background(), "amy@corp.test", "Secret1", RoleEmployee)
	require.NoError(t, err)

	_, err = f.manager.LeaveHistory(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)

	require.True(t, f.manager.Session().Anonymous())
	_, ok, serr := f.store.Get(credstore.KeyAccessToken)
	require.NoError(t, serr)
	require.False(t, ok)
}

func TestEmployeeDirectoryInjectsBearer(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login/", authBackendLogin)
	mux.HandleFunc("/api/employees/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer acc-token-1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]api.Employee{
			{ID: 1, Name: "Ann Chu", Email: "ann@corp.test", UserType: "employee"},
		})
	})
	f := newFixture(t, mux)
	f.manager.Restore(context.Background())

	_, err := f.manager.Employees(context.Background())
	require.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = f.manager.Login(context.Background(), "boss@corp.test", "Secret1", RoleManager)
	require.NoError(t, err)

	employees, err := f.manager.Employees(context.Background())
	require.NoError(t, err)
	require.Len(t, employees, 1)
	require.Equal(t, "Ann Chu", employees[0].Name)
}

func TestCreateEmployeeExpiredTokenForcesLogout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login/", authBackendLogin)
	mux.HandleFunc("/api/employees/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "token expired"})
	})
	f := newFixture(t, mux)
	f.manager.Restore(context.Background())

	_, err := f.manager.Login(context.Background(), "boss@corp.test", "Secret1", RoleManager)
	require.NoError(t, err)

	err = f.manager.CreateEmployee(context.Background(), api.CreateEmployeeRequest{
		Email: "new@corp.test", Name: "New Hire", UserType: "employee", Password: "Secret1",
	})
	require.ErrorIs(t, err, ErrSessionExpired)
	require.True(t, f.manager.Session().Anonymous())
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		confirm  string
		want     error
	}{
		{"valid", "boss@corp.test", "Passw0rd", "Passw0rd", nil},
		{"missing email", "", "Passw0rd", "Passw0rd", ErrEmailRequired},
		{"bad email", "not-an-email", "Passw0rd", "Passw0rd", ErrEmailInvalid},
		{"short password", "boss@corp.test", "Ab1", "Ab1", ErrPasswordWeak},
		{"no uppercase", "boss@corp.test", "password1", "password1", ErrPasswordWeak},
		{"no lowercase", "boss@corp.test", "PASSWORD1", "PASSWORD1", ErrPasswordWeak},
		{"whitespace", "boss@corp.test", "Pass word", "Pass word", ErrPasswordWeak},
		{"mismatch", "boss@corp.test", "Passw0rd", "Passw0rds", ErrPasswordMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSignup(tt.email, tt.password, tt.confirm)
			if tt.want == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("manager")
	require.NoError(t, err)
	require.Equal(t, RoleManager, role)

	_, err = ParseRole("admin")
	require.Error(t, err)
}
