// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package leave holds the leave domain: the working-day duration calculator,
// request types, and the holiday calendar.
package leave

import "time"

// WeekendDay is the single non-working weekday. Only Sunday is excluded from
// leave duration; Saturday counts as a working day. This is the established
// business rule, not an oversight.
const WeekendDay = time.Sunday

// WireDateFormat is the date layout the backend expects: local calendar
// fields, not UTC-normalized.
const WireDateFormat = "2006-01-02"

// Normalize strips the time-of-day from a date, keeping its location.
// The calculator compares calendar days only.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatDate renders a date in the backend wire format (YYYY-MM-DD) from its
// local calendar fields.
func FormatDate(t time.Time) string {
	return t.Format(WireDateFormat)
}

// ParseDate parses a YYYY-MM-DD wire date in the local time zone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(WireDateFormat, s, time.Local)
}

// WorkingDays counts the chargeable working days between start and end,
// inclusive of both endpoints. A day is chargeable unless it falls on the
// weekend day or appears in the holiday calendar.
//
// A zero start or end means "not yet selected" and yields 0; so does an
// inverted range (end before start). Neither is an error: the form rejects
// invalid ranges before submission, and the calculator stays total so it is
// safe to call on every input change.
//
// The counter is int64 so ranges spanning years cannot overflow.
func WorkingDays(start, end time.Time, holidays *Calendar) int64 {
	if start.IsZero() || end.IsZero() {
		return 0
	}

	day := Normalize(start)
	last := Normalize(end)
	if last.Before(day) {
		return 0
	}

	var count int64
	for !day.After(last) {
		if day.Weekday() != WeekendDay && !holidays.Contains(day) {
			count++
		}
		day = day.AddDate(0, 0, 1)
	}
	return count
}
