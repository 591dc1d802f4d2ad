// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func countSundays(start, end time.Time) int64 {
	var n int64
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Sunday {
			n++
		}
	}
	return n
}

func TestWorkingDays_WeekSpan(t *testing.T) {
	// Mon 2024-03-18 through Sun 2024-03-24: seven days, one Sunday.
	start := date(2024, time.March, 18)
	end := date(2024, time.March, 24)

	require.Equal(t, int64(6), WorkingDays(start, end, NewCalendar()))
}

func TestWorkingDays_SingleDay(t *testing.T) {
	monday := date(2024, time.March, 18)
	sunday := date(2024, time.March, 24)

	require.Equal(t, int64(1), WorkingDays(monday, monday, NewCalendar()))
	require.Equal(t, int64(0), WorkingDays(sunday, sunday, NewCalendar()))
}

func TestWorkingDays_SaturdayCounts(t *testing.T) {
	// Only Sunday is the weekend day; Saturday is chargeable.
	saturday := date(2024, time.March, 23)
	require.Equal(t, int64(1), WorkingDays(saturday, saturday, NewCalendar()))
}

func TestWorkingDays_HolidayExcluded(t *testing.T) {
	start := date(2024, time.March, 18)
	end := date(2024, time.March, 22)
	holidays := NewCalendar(date(2024, time.March, 20))

	require.Equal(t, int64(4), WorkingDays(start, end, holidays))
}

func TestWorkingDays_HolidayOnStartDay(t *testing.T) {
	d := date(2024, time.March, 18)
	require.Equal(t, int64(0), WorkingDays(d, d, NewCalendar(d)))
}

func TestWorkingDays_HolidayOnSundayIdempotent(t *testing.T) {
	// A holiday falling on the weekend day must not change the count.
	start := date(2024, time.March, 18)
	end := date(2024, time.March, 24)
	sunday := date(2024, time.March, 24)

	without := WorkingDays(start, end, NewCalendar())
	with := WorkingDays(start, end, NewCalendar(sunday))
	require.Equal(t, without, with)
}

func TestWorkingDays_MissingDates(t *testing.T) {
	d := date(2024, time.March, 18)
	var zero time.Time

	require.Equal(t, int64(0), WorkingDays(zero, d, NewCalendar()))
	require.Equal(t, int64(0), WorkingDays(d, zero, NewCalendar()))
	require.Equal(t, int64(0), WorkingDays(zero, zero, NewCalendar()))
}

func TestWorkingDays_InvertedRangeClampsToZero(t *testing.T) {
	start := date(2024, time.March, 24)
	end := date(2024, time.March, 18)
	require.Equal(t, int64(0), WorkingDays(start, end, NewCalendar()))
}

func TestWorkingDays_TimeOfDayIgnored(t *testing.T) {
	start := time.Date(2024, time.March, 18, 23, 59, 0, 0, time.Local)
	end := time.Date(2024, time.March, 19, 0, 1, 0, 0, time.Local)
	require.Equal(t, int64(2), WorkingDays(start, end, NewCalendar()))
}

func TestWorkingDays_NilCalendar(t *testing.T) {
	start := date(2024, time.March, 18)
	end := date(2024, time.March, 22)
	require.Equal(t, int64(5), WorkingDays(start, end, nil))
}

func TestWorkingDays_EmptyCalendarMatchesSundayFormula(t *testing.T) {
	// With no holidays the count is (end-start+1) minus Sundays in range.
	cases := []struct {
		start, end time.Time
	}{
		{date(2024, time.January, 1), date(2024, time.January, 31)},
		{date(2024, time.February, 10), date(2024, time.April, 2)},
		{date(2023, time.December, 25), date(2024, time.January, 7)},
	}

	for _, tc := range cases {
		total := int64(tc.end.Sub(tc.start).Hours()/24) + 1
		want := total - countSundays(tc.start, tc.end)
		require.Equal(t, want, WorkingDays(tc.start, tc.end, NewCalendar()),
			"range %s..%s", FormatDate(tc.start), FormatDate(tc.end))
	}
}

func TestWorkingDays_MultiYearRange(t *testing.T) {
	start := date(2020, time.January, 1)
	end := date(2029, time.December, 31)

	got := WorkingDays(start, end, NewCalendar())
	total := int64(end.Sub(start).Hours()/24) + 1
	want := total - countSundays(start, end)
	require.Equal(t, want, got)
	require.Greater(t, got, int64(3000))
}

func TestFormatDate_LocalFields(t *testing.T) {
	// Wire dates come from local calendar fields, never UTC conversion.
	loc := time.FixedZone("UTC+13", 13*60*60)
	late := time.Date(2024, time.March, 18, 0, 30, 0, 0, loc) // still Mar 17 in UTC

	require.Equal(t, "2024-03-18", FormatDate(late))
}

func TestParseDate_RoundTrip(t *testing.T) {
	d, err := ParseDate("2024-03-18")
	require.NoError(t, err)
	require.Equal(t, "2024-03-18", FormatDate(d))

	_, err = ParseDate("18/03/2024")
	require.Error(t, err)
}
