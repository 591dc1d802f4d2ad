// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidateReason(t *testing.T) {
	require.ErrorIs(t, ValidateReason(""), ErrReasonTooShort)
	require.ErrorIs(t, ValidateReason("   \t  "), ErrReasonTooShort)
	require.ErrorIs(t, ValidateReason("too short"), ErrReasonTooShort)
	require.NoError(t, ValidateReason("family emergency at home"))
}

func TestRequestValidate(t *testing.T) {
	valid := func() Request {
		return Request{
			Type:      TypeAnnual,
			StartDate: date(2024, time.March, 18),
			EndDate:   date(2024, time.March, 22),
			Reason:    "annual family vacation",
		}
	}

	t.Run("recomputes duration", func(t *testing.T) {
		r := valid()
		r.DurationDays = 99 // tampered value must be overwritten
		require.NoError(t, r.Validate(NewCalendar()))
		require.Equal(t, int64(5), r.DurationDays)
	})

	t.Run("duration respects holidays", func(t *testing.T) {
		r := valid()
		require.NoError(t, r.Validate(NewCalendar(date(2024, time.March, 19))))
		require.Equal(t, int64(4), r.DurationDays)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		r := valid()
		r.Type = "sabbatical"
		require.ErrorIs(t, r.Validate(nil), ErrInvalidType)
	})

	t.Run("rejects missing dates", func(t *testing.T) {
		r := valid()
		r.EndDate = time.Time{}
		require.ErrorIs(t, r.Validate(nil), ErrMissingDates)
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		r := valid()
		r.StartDate, r.EndDate = r.EndDate, r.StartDate
		require.ErrorIs(t, r.Validate(nil), ErrInvalidRange)
	})

	t.Run("rejects short reason", func(t *testing.T) {
		r := valid()
		r.Reason = "because"
		require.ErrorIs(t, r.Validate(nil), ErrReasonTooShort)
	})
}

func TestStatusLabel(t *testing.T) {
	require.Equal(t, "Pending", StatusPending.Label())
	require.Equal(t, "Approved", StatusApproved.Label())
	require.Equal(t, "Rejected", StatusRejected.Label())
	require.Equal(t, "", Status("").Label())
}

func TestTypeLabel(t *testing.T) {
	require.Equal(t, "Annual Leave", TypeAnnual.Label())
	require.Equal(t, "Sick Leave", TypeSick.Label())
	require.True(t, TypeAnnual.Valid())
	require.False(t, Type("unpaid").Valid())
}
