// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package leave

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// Calendar is a read-only set of non-working calendar dates, compared by
// date-equality only. A nil *Calendar behaves as an empty calendar.
type Calendar struct {
	mu    sync.RWMutex
	dates map[string]string // wire date -> holiday name
}

// NewCalendar builds a calendar from a list of dates.
func NewCalendar(dates ...time.Time) *Calendar {
	c := &Calendar{dates: make(map[string]string)}
	for _, d := range dates {
		c.dates[FormatDate(Normalize(d))] = ""
	}
	return c
}

// Contains reports whether the given day is a holiday. Time-of-day and
// location are ignored; only the calendar date matters.
func (c *Calendar) Contains(day time.Time) bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.dates[FormatDate(day)]
	return ok
}

// Len returns the number of holidays in the calendar.
func (c *Calendar) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.dates)
}

// Dates returns the holiday dates in wire format, sorted ascending.
func (c *Calendar) Dates() []string {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.dates))
	for d := range c.dates {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// replace atomically swaps the calendar contents. Readers holding an old
// snapshot are unaffected; the next Contains sees the new set.
func (c *Calendar) replace(dates map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dates = dates
}

// =============================================================================
// CALENDAR FILE
// =============================================================================

// calendarFile is the on-disk TOML shape:
//
//	[[holiday]]
//	date = "2025-12-25"
//	name = "Christmas Day"
type calendarFile struct {
	Holidays []holidayEntry `toml:"holiday"`
}

type holidayEntry struct {
	Date string `toml:"date"`
	Name string `toml:"name"`
}

// DefaultCalendarPath returns ~/.leavedesk/holidays.toml.
func DefaultCalendarPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".leavedesk", "holidays.toml"), nil
}

// LoadCalendar reads a holiday calendar from a TOML file. A missing file is
// not an error: it yields an empty calendar, matching the backend's "no
// holidays configured" default.
func LoadCalendar(path string) (*Calendar, error) {
	c := NewCalendar()
	if err := c.loadFrom(path); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Calendar) loadFrom(path string) error {
	var file calendarFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		if os.IsNotExist(err) {
			c.replace(make(map[string]string))
			return nil
		}
		return fmt.Errorf("failed to decode holiday calendar: %w", err)
	}

	dates := make(map[string]string, len(file.Holidays))
	for _, h := range file.Holidays {
		day, err := ParseDate(h.Date)
		if err != nil {
			return fmt.Errorf("invalid holiday date %q: %w", h.Date, err)
		}
		dates[FormatDate(day)] = h.Name
	}
	c.replace(dates)
	return nil
}

// =============================================================================
// CALENDAR WATCHER
// =============================================================================

// CalendarWatcher hot-reloads a calendar file when it changes, so an edited
// holiday list applies without restarting the client.
type CalendarWatcher struct {
	calendar *Calendar
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	done     chan struct{}
	closeOne sync.Once

	// onReload, if set, is called after each successful reload.
	onReload func()
}

// WatchCalendar loads the calendar at path and starts watching it for
// changes. Close must be called to release the watcher.
func WatchCalendar(path string, onReload func()) (*Calendar, *CalendarWatcher, error) {
	cal, err := LoadCalendar(path)
	if err != nil {
		return nil, nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	// Watch the directory, not the file: editors replace files by rename,
	// which drops a watch on the file itself.
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, nil, fmt.Errorf("failed to watch calendar directory: %w", err)
	}

	cw := &CalendarWatcher{
		calendar: cal,
		path:     path,
		watcher:  w,
		debounce: 250 * time.Millisecond,
		done:     make(chan struct{}),
		onReload: onReload,
	}
	go cw.processEvents()

	return cal, cw, nil
}

// Close stops watching and releases resources.
func (cw *CalendarWatcher) Close() error {
	cw.closeOne.Do(func() { close(cw.done) })
	return cw.watcher.Close()
}

func (cw *CalendarWatcher) processEvents() {
	var timer *time.Timer
	reload := func() {
		if err := cw.calendar.loadFrom(cw.path); err != nil {
			// A half-written file will fire another event when the write
			// completes; keep the previous calendar until then.
			return
		}
		if cw.onReload != nil {
			cw.onReload()
		}
	}

	for {
		select {
		case <-cw.done:
			return
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(cw.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			// Debounce bursts of events from a single save.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(cw.debounce, reload)
		case _, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}
