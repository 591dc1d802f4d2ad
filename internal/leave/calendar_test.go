// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package leave

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const calendarTOML = `
[[holiday]]
date = "2024-12-25"
name = "Christmas Day"

[[holiday]]
date = "2024-01-01"
name = "New Year's Day"
`

func TestLoadCalendar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.toml")
	require.NoError(t, os.WriteFile(path, []byte(calendarTOML), 0644))

	cal, err := LoadCalendar(path)
	require.NoError(t, err)
	require.Equal(t, 2, cal.Len())
	require.True(t, cal.Contains(date(2024, time.December, 25)))
	require.False(t, cal.Contains(date(2024, time.December, 26)))
	require.Equal(t, []string{"2024-01-01", "2024-12-25"}, cal.Dates())
}

func TestLoadCalendar_MissingFileIsEmpty(t *testing.T) {
	cal, err := LoadCalendar(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, 0, cal.Len())
}

func TestLoadCalendar_BadDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[holiday]]\ndate = \"25/12/2024\"\n"), 0644))

	_, err := LoadCalendar(path)
	require.Error(t, err)
}

func TestWatchCalendar_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holidays.toml")
	require.NoError(t, os.WriteFile(path, []byte(calendarTOML), 0644))

	reloaded := make(chan struct{}, 4)
	cal, watcher, err := WatchCalendar(path, func() { reloaded <- struct{}{} })
	require.NoError(t, err)
	defer watcher.Close()

	require.Equal(t, 2, cal.Len())

	// Rewrite the file with one extra holiday and wait for the reload.
	extra := calendarTOML + "\n[[holiday]]\ndate = \"2024-07-04\"\nname = \"Independence Day\"\n"
	require.NoError(t, os.WriteFile(path, []byte(extra), 0644))

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("calendar was not reloaded after file change")
	}

	require.True(t, cal.Contains(date(2024, time.July, 4)))
	require.Equal(t, 3, cal.Len())
}

func TestWatchCalendar_CloseIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holidays.toml")

	_, watcher, err := WatchCalendar(path, nil)
	require.NoError(t, err)
	require.NoError(t, watcher.Close())
	require.NoError(t, watcher.Close())
}
