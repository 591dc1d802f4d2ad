// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

// Wire types for the leave backend. Every response is validated and narrowed
// at this boundary before anything internal is constructed from it.

// TokenPair carries the access/refresh tokens returned by login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// User is the backend's representation of an authenticated account.
type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

// LoginRequest is the body for POST auth/login/.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

// LoginResponse is the body returned by POST auth/login/ on success.
type LoginResponse struct {
	Tokens TokenPair `json:"tokens"`
	User   User      `json:"user"`
}

// RegisterRequest is the body for POST auth/register-manager/.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

// LogoutRequest is the body for POST auth/logout/.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ApplyLeaveRequest is the body for POST api/apply-leave/. Dates are wire
// format YYYY-MM-DD from local calendar fields.
type ApplyLeaveRequest struct {
	LeaveType string `json:"leave_type"`
	Reason    string `json:"reason"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Duration  int64  `json:"duration"`
}

// LeaveRecord is one row of GET api/leave-history/ or GET api/leave/requests/.
type LeaveRecord struct {
	ID        int    `json:"id"`
	Employee  string `json:"employee_name"`
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Duration  int64  `json:"duration"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
}

// Employee is one row of GET api/employees/.
type Employee struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserType string `json:"user_type"`
}

// CreateEmployeeRequest is the body for POST api/employees/.
type CreateEmployeeRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	UserType string `json:"user_type"`
	Password string `json:"password"`
}

// ReviewRequest is the body for POST api/leave/approve/ and api/leave/reject/.
type ReviewRequest struct {
	RequestID int `json:"requestId"`
}

// errorResponse is the error body the backend attaches to non-2xx responses.
type errorResponse struct {
	Error  string            `json:"error"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}
