// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTestConfig writes a config file with every storage path pinned
// inside dir. extra is appended to the [security] section.
func writeTestConfig(t *testing.T, dir, extra string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`
[server]
url = "http://127.0.0.1:8000"

[security]
key_path = %q
credentials_path = %q
%s
[leave]
holiday_calendar_path = %q
watch_calendar = false
`, filepath.Join(dir, "master.key"), filepath.Join(dir, "credentials.db"), extra, filepath.Join(dir, "holidays.toml"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestSetupGeneratesKeyFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, "")

	env, err := Setup(NewArgParser([]string{"--config", cfgPath}), nil)
	require.NoError(t, err)
	defer env.Close()

	require.NotNil(t, env.Sessions)
	require.FileExists(t, filepath.Join(dir, "master.key"))
}

func TestSetupPassphraseDerivesKey(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, "passphrase = \"horse battery staple\"\n")

	env, err := Setup(NewArgParser([]string{"--config", cfgPath}), nil)
	require.NoError(t, err)
	defer env.Close()

	// Derived key: only the salt touches disk, never a key file.
	require.FileExists(t, filepath.Join(dir, "master.key.salt"))
	require.NoFileExists(t, filepath.Join(dir, "master.key"))
}

func TestSetupPassphraseSaltIsStable(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeTestConfig(t, dir, "passphrase = \"horse battery staple\"\n")

	env, err := Setup(NewArgParser([]string{"--config", cfgPath}), nil)
	require.NoError(t, err)
	env.Close()
	first, err := os.ReadFile(filepath.Join(dir, "master.key.salt"))
	require.NoError(t, err)

	env, err = Setup(NewArgParser([]string{"--config", cfgPath}), nil)
	require.NoError(t, err)
	defer env.Close()
	second, err := os.ReadFile(filepath.Join(dir, "master.key.salt"))
	require.NoError(t, err)

	// Same salt means the same derived key across runs.
	require.Equal(t, first, second)
}

func TestSetupDefaultPathsUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	env, err := Setup(NewArgParser(nil), nil)
	require.NoError(t, err)
	defer env.Close()

	require.FileExists(t, filepath.Join(home, ".leavedesk", "master.key"))
	require.FileExists(t, filepath.Join(home, ".leavedesk", "credentials.db"))
}
