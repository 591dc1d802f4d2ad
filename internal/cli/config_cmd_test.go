// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/leavedesk-tui/internal/config"
)

func TestHandleConfigInitWritesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, HandleConfig(NewArgParser([]string{"init"})))

	path := filepath.Join(home, ".leavedesk", "config.toml")
	require.FileExists(t, path)

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
}

func TestHandleConfigInitKeepsServerOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, HandleConfig(NewArgParser([]string{"init", "--server", "https://leave.corp.test"})))

	cfg, err := config.LoadFromPath(filepath.Join(home, ".leavedesk", "config.toml"))
	require.NoError(t, err)
	require.Equal(t, "https://leave.corp.test", cfg.Server.URL)
}
