// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/jeranaias/leavedesk-tui/internal/api"
	"github.com/jeranaias/leavedesk-tui/internal/credstore"
	"github.com/jeranaias/leavedesk-tui/internal/security"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrSessionExpired signals the server rejected our access token; the
	// local session has already been cleared by the time callers see it.
	ErrSessionExpired = errors.New("session expired, please log in again")

	// ErrNotAuthenticated is returned by authorized operations when no
	// user is logged in.
	ErrNotAuthenticated = errors.New("not logged in")
)

// =============================================================================
// MANAGER
// =============================================================================

// Manager coordinates the credential store, the encryption layer and the
// API client. All session transitions go through it; views and commands
// only ever see Session snapshots, never tokens.
type Manager struct {
	client *api.Client
	store  *credstore.Store
	crypto *security.EncryptionManager

	mu          sync.Mutex
	current     Session
	accessToken string
	refresh     string

	restoreOnce sync.Once
}

// NewManager builds a session manager in the pre-restore state: no user,
// IsLoading set. Callers must invoke Restore before routing anywhere.
func NewManager(client *api.Client, store *credstore.Store, crypto *security.EncryptionManager) *Manager {
	return &Manager{
		client:  client,
		store:   store,
		crypto:  crypto,
		current: Session{IsLoading: true},
	}
}

// Session returns a snapshot of the current state. Safe for concurrent use.
func (m *Manager) Session() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// =============================================================================
// RESTORE
// =============================================================================

// Restore attempts to resurrect a prior session from the credential store.
// Its side effects run at most once per process; later calls return the
// session as-is. Any failure along the way - missing token, undecryptable
// ciphertext, server rejection - resolves to a clean anonymous session and
// wipes whatever credentials were persisted.
func (m *Manager) Restore(ctx context.Context) Session {
	m.restoreOnce.Do(func() {
		m.restore(ctx)
	})
	return m.Session()
}

func (m *Manager) restore(ctx context.Context) {
	token, ok, err := m.store.Get(credstore.KeyAccessToken)
	if err != nil || !ok {
		if err != nil {
			log.Printf("session: credential store read failed: %v", err)
		}
		m.resolveAnonymous(false)
		return
	}

	plain, err := m.crypto.DecryptString(token)
	if err != nil {
		// Stored token is corrupt or was written under a different key.
		// Treat the whole store as poisoned.
		log.Printf("session: stored token undecryptable, clearing credentials")
		m.resolveAnonymous(true)
		return
	}

	user, err := m.client.CurrentUser(ctx, plain)
	if err != nil {
		log.Printf("session: token validation failed: %v", err)
		m.resolveAnonymous(true)
		return
	}

	role, err := ParseRole(user.UserType)
	if err != nil {
		log.Printf("session: restore rejected: %v", err)
		m.resolveAnonymous(true)
		return
	}

	var refreshPlain string
	if enc, ok, _ := m.store.Get(credstore.KeyRefreshToken); ok {
		if dec, err := m.crypto.DecryptString(enc); err == nil {
			refreshPlain = dec
		}
	}

	principal := Principal{ID: user.ID, Email: user.Email, Role: role}
	m.mu.Lock()
	m.accessToken = plain
	m.refresh = refreshPlain
	m.current = Session{User: &principal, IsLoading: false}
	m.mu.Unlock()
	log.Printf("session: restored for %s (fingerprint=%s)", user.Email, api.TokenFingerprint(plain))
}

// resolveAnonymous finishes the restore in the logged-out state,
// optionally wiping persisted credentials first.
func (m *Manager) resolveAnonymous(wipe bool) {
	if wipe {
		if err := m.store.Clear(); err != nil {
			log.Printf("session: credential wipe failed: %v", err)
		}
	}
	m.mu.Lock()
	m.current = Session{IsLoading: false}
	m.accessToken = ""
	m.refresh = ""
	m.mu.Unlock()
}

// =============================================================================
// LOGIN / REGISTER / LOGOUT
// =============================================================================

// Login authenticates against the backend and, on success, persists the
// encrypted token pair and the principal before publishing the new session.
// On any failure the in-memory session and the persisted store are left
// exactly as they were.
func (m *Manager) Login(ctx context.Context, email, password string, role Role) (*Principal, error) {
	resp, err := m.client.Login(ctx, email, password, string(role))
	if err != nil {
		return nil, err
	}

	resolved, err := ParseRole(resp.User.UserType)
	if err != nil {
		return nil, fmt.Errorf("login response: %w", err)
	}

	principal := Principal{ID: resp.User.ID, Email: resp.User.Email, Role: resolved}

	// SECURITY: each token is encrypted independently so corruption of
	// one record cannot expose or invalidate the other.
	encAccess, err := m.crypto.EncryptString(resp.Tokens.Access)
	if err != nil {
		return nil, fmt.Errorf("failed to protect access token: %w", err)
	}
	encRefresh, err := m.crypto.EncryptString(resp.Tokens.Refresh)
	if err != nil {
		return nil, fmt.Errorf("failed to protect refresh token: %w", err)
	}
	encoded, err := encodePrincipal(principal)
	if err != nil {
		return nil, err
	}

	// Persist first, publish after. A crash between the two leaves a
	// restorable store rather than a live session that vanishes on restart.
	err = m.store.SetAll(map[string]string{
		credstore.KeyAccessToken:  encAccess,
		credstore.KeyRefreshToken: encRefresh,
		credstore.KeyUser:         encoded,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	m.mu.Lock()
	m.accessToken = resp.Tokens.Access
	m.refresh = resp.Tokens.Refresh
	m.current = Session{User: &principal, IsLoading: false}
	m.mu.Unlock()

	log.Printf("session: login ok for %s (fingerprint=%s)", principal.Email, api.TokenFingerprint(resp.Tokens.Access))
	return &principal, nil
}

// Register creates a new manager account. It never mutates the session;
// the caller is expected to route the user to the login screen afterwards.
func (m *Manager) Register(ctx context.Context, email, password string) error {
	return m.client.Register(ctx, email, password, string(RoleManager))
}

// Logout revokes the refresh token on the backend on a best-effort basis
// and unconditionally clears local state. A non-nil return is advisory:
// by the time it is returned the local session is already gone.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	access, refresh := m.accessToken, m.refresh
	m.mu.Unlock()

	var remoteErr error
	if refresh != "" {
		if err := m.client.Logout(ctx, access, refresh); err != nil {
			log.Printf("session: remote logout failed (clearing locally anyway): %v", err)
			remoteErr = err
		}
	}

	if err := m.store.Clear(); err != nil {
		log.Printf("session: credential wipe failed: %v", err)
	}

	m.mu.Lock()
	m.current = Session{IsLoading: false}
	m.accessToken = ""
	m.refresh = ""
	m.mu.Unlock()

	return remoteErr
}

// =============================================================================
// AUTHORIZED OPERATIONS
// =============================================================================
// Leave endpoints require a bearer token. The manager injects it so that
// nothing outside this package ever holds credentials; a 401 from any of
// these forces a local logout before the error reaches the caller.

func (m *Manager) bearer() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current.User == nil || m.accessToken == "" {
		return "", ErrNotAuthenticated
	}
	return m.accessToken, nil
}

// expireIfAuthError translates a server-side auth rejection into a forced
// logout. Credentials are wiped so the next restore starts clean.
func (m *Manager) expireIfAuthError(err error) error {
	if err == nil || !errors.Is(err, api.ErrAuthFailed) {
		return err
	}
	if cerr := m.store.Clear(); cerr != nil {
		log.Printf("session: credential wipe failed: %v", cerr)
	}
	m.mu.Lock()
	m.current = Session{IsLoading: false}
	m.accessToken = ""
	m.refresh = ""
	m.mu.Unlock()
	return ErrSessionExpired
}

// ApplyLeave submits a leave request for the logged-in employee.
func (m *Manager) ApplyLeave(ctx context.Context, req api.ApplyLeaveRequest) error {
	token, err := m.bearer()
	if err != nil {
		return err
	}
	return m.expireIfAuthError(m.client.ApplyLeave(ctx, token, req))
}

// LeaveHistory fetches the logged-in user's own leave records.
func (m *Manager) LeaveHistory(ctx context.Context) ([]api.LeaveRecord, error) {
	token, err := m.bearer()
	if err != nil {
		return nil, err
	}
	records, err := m.client.LeaveHistory(ctx, token)
	return records, m.expireIfAuthError(err)
}

// PendingRequests fetches requests awaiting manager review.
func (m *Manager) PendingRequests(ctx context.Context) ([]api.LeaveRecord, error) {
	token, err := m.bearer()
	if err != nil {
		return nil, err
	}
	records, err := m.client.PendingRequests(ctx, token)
	return records, m.expireIfAuthError(err)
}

// Approve marks a pending request approved.
func (m *Manager) Approve(ctx context.Context, requestID int) error {
	token, err := m.bearer()
	if err != nil {
		return err
	}
	return m.expireIfAuthError(m.client.ApproveLeave(ctx, token, requestID))
}

// Reject marks a pending request rejected.
func (m *Manager) Reject(ctx context.Context, requestID int) error {
	token, err := m.bearer()
	if err != nil {
		return err
	}
	return m.expireIfAuthError(m.client.RejectLeave(ctx, token, requestID))
}

// Employees fetches the employee directory for manager review.
func (m *Manager) Employees(ctx context.Context) ([]api.Employee, error) {
	token, err := m.bearer()
	if err != nil {
		return nil, err
	}
	employees, err := m.client.Employees(ctx, token)
	return employees, m.expireIfAuthError(err)
}

// CreateEmployee provisions a new account on behalf of a manager.
func (m *Manager) CreateEmployee(ctx context.Context, req api.CreateEmployeeRequest) error {
	token, err := m.bearer()
	if err != nil {
		return err
	}
	return m.expireIfAuthError(m.client.CreateEmployee(ctx, token, req))
}

// StoredPrincipal decodes the cached principal record, if any. Used by
// headless commands that want identity without a network round trip.
func (m *Manager) StoredPrincipal() (*Principal, bool) {
	raw, ok, err := m.store.Get(credstore.KeyUser)
	if err != nil || !ok {
		return nil, false
	}
	var p Principal
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, false
	}
	return &p, true
}
