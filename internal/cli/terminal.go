// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection and secure prompting for the leavedesk CLI.
//
// USABILITY: TTY detection for proper terminal handling. Interactive
// prompts only fire on a real terminal; piped invocations must pass
// everything as flags.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// =============================================================================
// COLOR CONTROL
// =============================================================================

var (
	colorOnce    sync.Once
	colorProfile termenv.Profile
)

// ColorEnabled reports whether colored output should be used: stdout must
// be a TTY and NO_COLOR must not be set.
func ColorEnabled() bool {
	colorOnce.Do(func() {
		if os.Getenv("NO_COLOR") != "" || !IsStdoutTTY() {
			colorProfile = termenv.Ascii
			return
		}
		colorProfile = termenv.ColorProfile()
	})
	return colorProfile != termenv.Ascii
}

// =============================================================================
// PROMPTING
// =============================================================================

// PromptLine reads a single line of input with a label.
func PromptLine(label string) (string, error) {
	if !IsTTY() {
		return "", fmt.Errorf("%s required: no terminal available for prompting", label)
	}
	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", label, err)
	}
	return strings.TrimSpace(line), nil
}

// PromptPassword reads a password without echoing it.
// SECURITY: passwords never appear on screen or in shell history.
func PromptPassword(label string) (string, error) {
	if !IsTTY() {
		return "", fmt.Errorf("%s required: no terminal available for prompting", label)
	}
	fmt.Printf("%s: ", label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", label, err)
	}
	return string(raw), nil
}
