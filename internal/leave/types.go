// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package leave

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// =============================================================================
// LEAVE TYPES AND STATUS
// =============================================================================

// Type identifies a category of leave.
type Type string

const (
	TypeAnnual Type = "annual"
	TypeSick   Type = "sick"
)

// Types lists the selectable leave types in display order.
func Types() []Type {
	return []Type{TypeAnnual, TypeSick}
}

// Valid reports whether the leave type is one the backend accepts.
func (t Type) Valid() bool {
	switch t {
	case TypeAnnual, TypeSick:
		return true
	}
	return false
}

// Label returns a human-readable name for the leave type.
func (t Type) Label() string {
	switch t {
	case TypeAnnual:
		return "Annual Leave"
	case TypeSick:
		return "Sick Leave"
	default:
		return string(t)
	}
}

// Status is the review state of a leave request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Label returns the status with its first letter capitalized, as shown in
// history and approval tables.
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[0])) + string(s[1:])
}

// =============================================================================
// LEAVE REQUEST
// =============================================================================

// MinReasonLength is the minimum number of characters in a leave reason.
const MinReasonLength = 10

var (
	// ErrInvalidRange indicates the end date precedes the start date.
	ErrInvalidRange = errors.New("end date must not be before start date")
	// ErrMissingDates indicates one or both dates are not selected.
	ErrMissingDates = errors.New("start and end dates are required")
	// ErrInvalidType indicates an unknown leave type.
	ErrInvalidType = errors.New("leave type is required")
	// ErrReasonTooShort indicates a blank or too-short reason.
	ErrReasonTooShort = fmt.Errorf("reason must be at least %d characters", MinReasonLength)
)

// Request is a leave application as the client sees it. Duration is always
// recomputed locally from the dates and the holiday calendar; a value
// arriving from anywhere else is overwritten before submission.
type Request struct {
	ID           int       `json:"id"`
	Employee     string    `json:"employee_name,omitempty"`
	Type         Type      `json:"leave_type"`
	StartDate    time.Time `json:"-"`
	EndDate      time.Time `json:"-"`
	DurationDays int64     `json:"duration"`
	Reason       string    `json:"reason"`
	Status       Status    `json:"status"`
}

// ValidateReason checks that the reason is non-blank and long enough,
// mirroring the form validation the backend also applies.
func ValidateReason(reason string) error {
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" || utf8.RuneCountInString(trimmed) < MinReasonLength {
		return ErrReasonTooShort
	}
	return nil
}

// Validate checks a request before submission and recomputes its duration
// under the given holiday calendar. The stored DurationDays is overwritten
// unconditionally: the calculator is the only source of that field.
func (r *Request) Validate(holidays *Calendar) error {
	if !r.Type.Valid() {
		return ErrInvalidType
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return ErrMissingDates
	}
	if Normalize(r.EndDate).Before(Normalize(r.StartDate)) {
		return ErrInvalidRange
	}
	if err := ValidateReason(r.Reason); err != nil {
		return err
	}
	r.DurationDays = WorkingDays(r.StartDate, r.EndDate, holidays)
	return nil
}
