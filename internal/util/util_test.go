// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncateWidth(t *testing.T) {
	require.Equal(t, "", TruncateWidth("hello", 0))
	require.Equal(t, "hello", TruncateWidth("hello", 5))
	require.Equal(t, "he...", TruncateWidth("hello world", 5))
}

func TestPadWidth(t *testing.T) {
	require.Equal(t, "ab   ", PadWidth("ab", 5))
	require.Equal(t, "abcdef", PadWidth("abcdef", 5))
}

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "file.txt")

	require.NoError(t, AtomicWriteFile(path, []byte("first"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "first", string(data))

	// Overwrite replaces the whole file.
	require.NoError(t, AtomicWriteFile(path, []byte("second"), 0644))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "second", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestAtomicWriteFileWithDirPermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secrets", "cred.bin")

	require.NoError(t, AtomicWriteFileWithDir(path, []byte("k"), 0600, 0700))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())
}
