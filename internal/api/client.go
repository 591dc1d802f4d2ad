// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the HTTP client for the leave-management backend.
//
// The backend is an opaque REST collaborator; this package owns request
// construction, retries, and the narrowing of every response into typed
// values. No token ever appears in a log line - fingerprints only.
package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Configuration constants for the backend API.
const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the number of attempts for transient errors.
	DefaultMaxRetries = 3

	// retryBaseDelay is the base delay for exponential backoff.
	retryBaseDelay = 500 * time.Millisecond

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 2 * 1024 * 1024 // 2MB limit
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// Shared HTTP client for all backend requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnavailable indicates the request never reached the backend.
	// Surfaced as a generic retryable notice.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrAuthFailed indicates a 401: invalid credentials or expired session.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates the client-side login throttle tripped.
	ErrRateLimited = errors.New("too many login attempts, slow down")
)

// APIError is a structured error body from the backend.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// FieldErrors returns the per-field validation messages as "field: message"
// lines, sorted by field name for stable display.
func (e *APIError) FieldErrors() []string {
	if len(e.Fields) == 0 {
		return nil
	}
	lines := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		lines = append(lines, field+": "+msg)
	}
	sort.Strings(lines)
	return lines
}

// ErrorDetails extracts per-field validation messages from err when it
// carries an APIError, for rendering under the main error line.
func ErrorDetails(err error) []string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return nil
	}
	return apiErr.FieldErrors()
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the leave backend.
type Client struct {
	baseURL    string
	maxRetries int
	httpClient *http.Client

	// loginLimiter throttles repeated login attempts client-side so a stuck
	// retry loop cannot hammer the auth endpoint.
	loginLimiter *rate.Limiter
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		maxRetries:   DefaultMaxRetries,
		httpClient:   sharedHTTPClient,
		loginLimiter: rate.NewLimiter(rate.Every(2*time.Second), 3),
	}
}

// WithTimeout sets the per-request timeout. Non-positive values keep the
// default. The pooled transport is shared either way.
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d <= 0 || d == DefaultTimeout {
		return c
	}
	c.httpClient = &http.Client{
		Transport: sharedHTTPClient.Transport,
		Timeout:   d,
	}
	return c
}

// WithMaxRetries sets the maximum number of attempts for transient errors.
// Values below one are clamped: every request gets at least one attempt.
func (c *Client) WithMaxRetries(n int) *Client {
	if n < 1 {
		n = 1
	}
	c.maxRetries = n
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// TokenFingerprint returns a short SHA-256 fingerprint of a token for
// logging. SECURITY: never log token fragments, only fingerprints.
func TokenFingerprint(token string) string {
	if token == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:4])
}

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// Login authenticates against POST auth/login/ and returns the token pair
// plus the account. The intended role travels with the credentials; the
// backend rejects a role mismatch.
func (c *Client) Login(ctx context.Context, email, password, userType string) (*LoginResponse, error) {
	if !c.loginLimiter.Allow() {
		return nil, ErrRateLimited
	}

	var out LoginResponse
	err := c.do(ctx, http.MethodPost, "auth/login/", "", LoginRequest{
		Email:    email,
		Password: password,
		UserType: userType,
	}, &out)
	if err != nil {
		return nil, err
	}

	// Narrow at the boundary: a 200 with missing tokens is a malformed
	// response, not a login.
	if out.Tokens.Access == "" || out.Tokens.Refresh == "" {
		return nil, &APIError{Status: http.StatusOK, Message: "login response missing tokens"}
	}
	if out.User.Email == "" || out.User.UserType == "" {
		return nil, &APIError{Status: http.StatusOK, Message: "login response missing user"}
	}
	return &out, nil
}

// Register creates an account via POST auth/register-manager/. It does not
// log the new account in.
func (c *Client) Register(ctx context.Context, email, password, userType string) error {
	return c.do(ctx, http.MethodPost, "auth/register-manager/", "", RegisterRequest{
		Email:    email,
		Password: password,
		UserType: userType,
	}, nil)
}

// Logout invalidates the refresh token server-side via POST auth/logout/.
func (c *Client) Logout(ctx context.Context, accessToken, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "auth/logout/", accessToken, LogoutRequest{
		RefreshToken: refreshToken,
	}, nil)
}

// CurrentUser resolves the bearer token into an account via GET auth/user/.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "auth/user/", accessToken, nil, &out); err != nil {
		return nil, err
	}
	if out.Email == "" || out.UserType == "" {
		return nil, &APIError{Status: http.StatusOK, Message: "user response missing fields"}
	}
	return &out, nil
}

// =============================================================================
// LEAVE ENDPOINTS
// =============================================================================

// ApplyLeave submits a leave application via POST api/apply-leave/.
func (c *Client) ApplyLeave(ctx context.Context, accessToken string, req ApplyLeaveRequest) error {
	return c.do(ctx, http.MethodPost, "api/apply-leave/", accessToken, req, nil)
}

// LeaveHistory fetches the caller's leave requests via GET api/leave-history/.
func (c *Client) LeaveHistory(ctx context.Context, accessToken string) ([]LeaveRecord, error) {
	var out []LeaveRecord
	if err := c.do(ctx, http.MethodGet, "api/leave-history/", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PendingRequests fetches the requests awaiting review via
// GET api/leave/requests/. Manager only; the backend enforces the role.
func (c *Client) PendingRequests(ctx context.Context, accessToken string) ([]LeaveRecord, error) {
	var out []LeaveRecord
	if err := c.do(ctx, http.MethodGet, "api/leave/requests/", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveLeave approves a request via POST api/leave/approve/.
func (c *Client) ApproveLeave(ctx context.Context, accessToken string, requestID int) error {
	return c.do(ctx, http.MethodPost, "api/leave/approve/", accessToken, ReviewRequest{RequestID: requestID}, nil)
}

// RejectLeave rejects a request via POST api/leave/reject/.
func (c *Client) RejectLeave(ctx context.Context, accessToken string, requestID int) error {
	return c.do(ctx, http.MethodPost, "api/leave/reject/", accessToken, ReviewRequest{RequestID: requestID}, nil)
}

// =============================================================================
// EMPLOYEE ENDPOINTS
// =============================================================================

// Employees fetches the employee directory via GET api/employees/.
// Manager only; the backend enforces the role.
func (c *Client) Employees(ctx context.Context, accessToken string) ([]Employee, error) {
	var out []Employee
	if err := c.do(ctx, http.MethodGet, "api/employees/", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEmployee provisions an account via POST api/employees/.
func (c *Client) CreateEmployee(ctx context.Context, accessToken string, req CreateEmployeeRequest) error {
	return c.do(ctx, http.MethodPost, "api/employees/", accessToken, req, nil)
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// do performs a request with retries and decodes the response into out.
// Retries apply only to transport failures and 5xx responses; a 4xx is
// returned immediately.
func (c *Client) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	url := c.baseURL + "/" + path
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 500ms, 1s, 2s...
			delay := retryBaseDelay * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		retryable, err := c.doOnce(ctx, method, url, path, accessToken, bodyBytes, out)
		if err == nil {
			return nil
		}
		if !retryable {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// doOnce performs a single attempt. The bool result reports whether the
// failure is worth retrying.
func (c *Client) doOnce(ctx context.Context, method, url, path, accessToken string, body []byte, out any) (bool, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req, accessToken)

	log.Printf("API request: %s /%s", method, path)
	start := time.Now()
	resp, err := c.httpClient.Do(req)

	// SECURITY: Clear Authorization header immediately after the request so
	// a logged/dumped request can never leak the token.
	req.Header.Del("Authorization")

	if err != nil {
		log.Printf("API request failed: %s /%s: network error", method, path)
		return true, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	log.Printf("API response: %d %s (%v)", resp.StatusCode, path, time.Since(start).Round(time.Millisecond))

	respBody, err := readResponse(resp)
	if err != nil {
		return false, err
	}

	if resp.StatusCode >= 500 {
		return true, c.errorFromResponse(resp.StatusCode, respBody)
	}
	if resp.StatusCode >= 400 {
		return false, c.errorFromResponse(resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return false, fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return false, nil
}

// setHeaders sets the standard headers for a backend request.
func (c *Client) setHeaders(req *http.Request, accessToken string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "leavedesk/1.0")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
}

// readResponse reads the body with a size limit.
// SECURITY: Response size limit prevents memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	// Read one byte past the limit so a body of exactly MaxResponseSize is
	// still accepted; only the extra byte marks the response as oversize.
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// errorFromResponse maps a non-2xx response to a typed error.
func (c *Client) errorFromResponse(status int, body []byte) error {
	var apiErr errorResponse
	message := ""
	var fields map[string]string
	if err := json.Unmarshal(body, &apiErr); err == nil {
		message = apiErr.Error
		if message == "" {
			message = apiErr.Detail
		}
		fields = apiErr.Fields
	}

	if status == http.StatusUnauthorized {
		if message != "" {
			return fmt.Errorf("%w: %s", ErrAuthFailed, message)
		}
		return ErrAuthFailed
	}

	return &APIError{Status: status, Message: message, Fields: fields}
}
