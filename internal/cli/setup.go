// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - Shared wiring for CLI handlers and the TUI entry point.
package cli

import (
	"fmt"
	"time"

	"github.com/jeranaias/leavedesk-tui/internal/api"
	"github.com/jeranaias/leavedesk-tui/internal/config"
	"github.com/jeranaias/leavedesk-tui/internal/credstore"
	"github.com/jeranaias/leavedesk-tui/internal/leave"
	"github.com/jeranaias/leavedesk-tui/internal/security"
	"github.com/jeranaias/leavedesk-tui/internal/session"
	"github.com/jeranaias/leavedesk-tui/internal/ui/styles"
)

// =============================================================================
// ENVIRONMENT
// =============================================================================

// Env bundles the wired application components every command needs.
type Env struct {
	Cfg      *config.Config
	Sessions *session.Manager
	Holidays *leave.Calendar

	// Watcher is non-nil when calendar hot reload is active.
	Watcher *leave.CalendarWatcher

	store *credstore.Store
}

// Close releases the credential store and the calendar watcher.
func (e *Env) Close() {
	if e.Watcher != nil {
		_ = e.Watcher.Close()
	}
	if e.store != nil {
		_ = e.store.Close()
	}
}

// Setup loads configuration, opens the credential store, initializes the
// encryption layer and builds the session manager. Flags override config,
// config overrides environment defaults.
func Setup(parser *ArgParser, onCalendarReload func()) (*Env, error) {
	var cfg *config.Config
	var err error
	if path := parser.Flag("config"); path != "" {
		cfg, err = config.LoadFromPath(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if server := parser.Flag("server"); server != "" {
		cfg.Server.URL = server
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	styles.ApplyTheme(cfg.UI.Theme)
	styles.SetCompact(cfg.UI.CompactMode)

	var keyStore *security.FileKeyStore
	if cfg.Security.KeyPath != "" {
		keyStore = security.NewFileKeyStore(cfg.Security.KeyPath)
	} else {
		keyStore, err = security.NewDefaultKeyStore()
		if err != nil {
			return nil, err
		}
	}

	// A passphrase switches to PBKDF2 derivation: no key file is written,
	// only the salt next to where the key file would live.
	var crypto *security.EncryptionManager
	if cfg.Security.Passphrase != "" {
		crypto, err = security.NewEncryptionManagerWithPassword(cfg.Security.Passphrase, keyStore.Path()+".salt")
	} else {
		crypto, err = security.NewEncryptionManager(keyStore)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize encryption: %w", err)
	}

	credPath := cfg.Security.CredentialsPath
	if credPath == "" {
		credPath, err = credstore.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	store, err := credstore.Open(credPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	calPath := cfg.Leave.HolidayCalendarPath
	if calPath == "" {
		calPath, err = leave.DefaultCalendarPath()
		if err != nil {
			store.Close()
			return nil, err
		}
	}

	env := &Env{Cfg: cfg, store: store}
	if cfg.Leave.WatchCalendar && onCalendarReload != nil {
		holidays, watcher, werr := leave.WatchCalendar(calPath, onCalendarReload)
		if werr != nil {
			store.Close()
			return nil, fmt.Errorf("failed to load holiday calendar: %w", werr)
		}
		env.Holidays = holidays
		env.Watcher = watcher
	} else {
		holidays, lerr := leave.LoadCalendar(calPath)
		if lerr != nil {
			store.Close()
			return nil, fmt.Errorf("failed to load holiday calendar: %w", lerr)
		}
		env.Holidays = holidays
	}

	client := api.NewClient(cfg.Server.URL).
		WithMaxRetries(cfg.Server.MaxRetries).
		WithTimeout(time.Duration(cfg.Server.TimeoutSecs) * time.Second)
	env.Sessions = session.NewManager(client, store, crypto)
	return env, nil
}
