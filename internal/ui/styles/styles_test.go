// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestApplyThemePinsBackground(t *testing.T) {
	ApplyTheme("light")
	require.False(t, lipgloss.HasDarkBackground())

	ApplyTheme("dark")
	require.True(t, lipgloss.HasDarkBackground())
}

func TestSetCompactTightensSpacing(t *testing.T) {
	t.Cleanup(func() { SetCompact(false) })

	SetCompact(true)
	require.Equal(t, 0, Box.GetPaddingTop())
	require.Equal(t, 1, Box.GetPaddingLeft())
	require.Equal(t, 0, Title.GetMarginBottom())
	require.Equal(t, 0, Help.GetMarginTop())

	SetCompact(false)
	require.Equal(t, 1, Box.GetPaddingTop())
	require.Equal(t, 2, Box.GetPaddingLeft())
	require.Equal(t, 1, Title.GetMarginBottom())
}
