// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for
// leavedesk.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.leavedesk/config.toml
//   - ~/.leavedesk/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/leavedesk-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete leavedesk configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Server holds backend connection settings.
	Server ServerConfig `toml:"server" json:"server"`

	// Security holds credential protection settings.
	Security SecurityConfig `toml:"security" json:"security"`

	// Leave holds calculator and calendar settings.
	Leave LeaveConfig `toml:"leave" json:"leave"`

	// UI holds terminal UI settings.
	UI UIConfig `toml:"ui" json:"ui"`
}

// ServerConfig contains backend connection configuration.
type ServerConfig struct {
	// URL is the base URL of the leave-management backend.
	URL string `toml:"url" json:"url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// MaxRetries is the retry budget for transient failures (0-5).
	MaxRetries int `toml:"max_retries" json:"max_retries"`
}

// SecurityConfig contains credential protection configuration.
type SecurityConfig struct {
	// KeyPath is the master key file location (empty = ~/.leavedesk/master.key).
	KeyPath string `toml:"key_path" json:"key_path"`
	// CredentialsPath is the credential database location
	// (empty = ~/.leavedesk/credentials.db).
	CredentialsPath string `toml:"credentials_path" json:"credentials_path"`
	// Passphrase switches to a PBKDF2-derived key instead of the key file.
	// Usually supplied via LEAVEDESK_PASSPHRASE; Save never persists it.
	Passphrase string `toml:"passphrase" json:"passphrase"`
}

// LeaveConfig contains working-day calculator configuration.
type LeaveConfig struct {
	// HolidayCalendarPath points at the TOML holiday calendar
	// (empty = ~/.leavedesk/holidays.toml).
	HolidayCalendarPath string `toml:"holiday_calendar_path" json:"holiday_calendar_path"`
	// WatchCalendar enables hot reload when the calendar file changes.
	WatchCalendar bool `toml:"watch_calendar" json:"watch_calendar"`
}

// UIConfig contains terminal UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark" or "light".
	Theme string `toml:"theme" json:"theme"`
	// CompactMode uses a denser layout.
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Server: ServerConfig{
			URL:         "http://127.0.0.1:8000",
			TimeoutSecs: 30,
			MaxRetries:  3,
		},

		Security: SecurityConfig{
			KeyPath:         "",
			CredentialsPath: "",
		},

		Leave: LeaveConfig{
			HolidayCalendarPath: "",
			WatchCalendar:       true,
		},

		UI: UIConfig{
			Theme:       "dark",
			CompactMode: false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the leavedesk configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".leavedesk"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only).
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finalize(cfg)
			}
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finalize(cfg)
			}
		}
	}

	cfg, err = finalize(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}
	return finalize(cfg)
}

// finalize applies env overrides, fills defaults, and validates.
func finalize(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
// SECURITY: Checks and fixes file permissions on load.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
// SECURITY: Checks and fixes file permissions on load.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies LEAVEDESK_* environment variables on top of the
// loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LEAVEDESK_SERVER_URL"); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv("LEAVEDESK_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.TimeoutSecs = n
		}
	}
	if v := os.Getenv("LEAVEDESK_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.MaxRetries = n
		}
	}
	if v := os.Getenv("LEAVEDESK_KEY_PATH"); v != "" {
		c.Security.KeyPath = v
	}
	if v := os.Getenv("LEAVEDESK_CREDENTIALS_PATH"); v != "" {
		c.Security.CredentialsPath = v
	}
	if v := os.Getenv("LEAVEDESK_PASSPHRASE"); v != "" {
		c.Security.Passphrase = v
	}
	if v := os.Getenv("LEAVEDESK_HOLIDAYS"); v != "" {
		c.Leave.HolidayCalendarPath = v
	}
	if v := os.Getenv("LEAVEDESK_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// DEFAULTS AND VALIDATION
// =============================================================================

// SetDefaults fills in any missing values with defaults.
func (c *Config) SetDefaults() {
	defaults := Default()
	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Server.URL == "" {
		c.Server.URL = defaults.Server.URL
	}
	if c.Server.TimeoutSecs <= 0 {
		c.Server.TimeoutSecs = defaults.Server.TimeoutSecs
	}
	if c.Server.MaxRetries < 0 {
		c.Server.MaxRetries = defaults.Server.MaxRetries
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server.url %q is not a valid URL", c.Server.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server.url scheme must be http or https, got %q", u.Scheme)
	}
	if c.Server.TimeoutSecs < 1 || c.Server.TimeoutSecs > 300 {
		return fmt.Errorf("server.timeout_secs must be between 1 and 300, got %d", c.Server.TimeoutSecs)
	}
	if c.Server.MaxRetries < 0 || c.Server.MaxRetries > 5 {
		return fmt.Errorf("server.max_retries must be between 0 and 5, got %d", c.Server.MaxRetries)
	}
	if c.UI.Theme != "dark" && c.UI.Theme != "light" {
		return fmt.Errorf("ui.theme must be \"dark\" or \"light\", got %q", c.UI.Theme)
	}
	return nil
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the configuration to the TOML config file atomically with
// owner-only permissions.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}

	// SECURITY: the passphrase reaches disk nowhere; it is supplied per run
	// via the environment or an already-existing config file.
	clone := *cfg
	clone.Security.Passphrase = ""

	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(&clone); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
