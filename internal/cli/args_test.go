// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArgParserFlagFormats(t *testing.T) {
	p := NewArgParser([]string{"--email", "amy@corp.test", "--role=manager", "--json"})
	require.Equal(t, "amy@corp.test", p.Flag("email"))
	require.Equal(t, "manager", p.Flag("role"))
	require.True(t, p.BoolFlag("json"))
	require.False(t, p.BoolFlag("verbose"))
}

func TestArgParserPositionals(t *testing.T) {
	p := NewArgParser([]string{"42", "--json"})
	require.Equal(t, "42", p.Positional(0))
	require.Equal(t, "", p.Positional(1))

	id, ok := p.PositionalInt(0)
	require.True(t, ok)
	require.Equal(t, 42, id)

	_, ok = p.PositionalInt(5)
	require.False(t, ok)
}

func TestArgParserTrailingValueFlagBecomesBool(t *testing.T) {
	p := NewArgParser([]string{"--server"})
	require.Equal(t, "", p.Flag("server"))
	require.True(t, p.BoolFlag("server"))
}

func TestArgParserKnownBoolNeverConsumesValue(t *testing.T) {
	p := NewArgParser([]string{"--json", "17"})
	require.True(t, p.BoolFlag("json"))
	require.Equal(t, "17", p.Positional(0))
}
