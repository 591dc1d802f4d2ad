// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the leavedesk TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Cyan - Brand color, headers, focused elements
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Purple - Secondary accent, selections
var Purple = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// Emerald - Success states, approved requests
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// Rose - Errors, rejected requests
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, pending requests
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// =============================================================================
// SURFACE AND TEXT COLORS
// =============================================================================

// Overlay - Borders, separators
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Hints, help lines, very subtle text
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// =============================================================================
// SHARED STYLES
// =============================================================================

// Title renders screen headings.
var Title = lipgloss.NewStyle().
	Foreground(Cyan).
	Bold(true).
	MarginBottom(1)

// Label renders form field labels.
var Label = lipgloss.NewStyle().
	Foreground(TextSecondary)

// Value renders read-only field values.
var Value = lipgloss.NewStyle().
	Foreground(TextPrimary)

// Help renders key hints at the bottom of a screen.
var Help = lipgloss.NewStyle().
	Foreground(TextMuted).
	MarginTop(1)

// Focused marks the active form element.
var Focused = lipgloss.NewStyle().
	Foreground(Cyan).
	Bold(true)

// Box wraps a screen in a rounded border.
var Box = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Overlay).
	Padding(1, 2)

// ErrorText renders inline form and network errors.
var ErrorText = lipgloss.NewStyle().
	Foreground(Rose).
	Bold(true)

// FieldErrorText renders per-field validation lines under an error message.
var FieldErrorText = lipgloss.NewStyle().
	Foreground(Rose)

// SuccessText renders confirmation messages.
var SuccessText = lipgloss.NewStyle().
	Foreground(Emerald).
	Bold(true)

// =============================================================================
// THEME
// =============================================================================

// ApplyTheme pins light or dark rendering instead of relying on terminal
// background detection. Every AdaptiveColor above resolves against it.
func ApplyTheme(theme string) {
	lipgloss.SetHasDarkBackground(theme != "light")
}

// SetCompact tightens vertical spacing for dense layouts.
func SetCompact(on bool) {
	if on {
		Title = Title.MarginBottom(0)
		Help = Help.MarginTop(0)
		Box = Box.Padding(0, 1)
	} else {
		Title = Title.MarginBottom(1)
		Help = Help.MarginTop(1)
		Box = Box.Padding(1, 2)
	}
}

// =============================================================================
// STATUS INDICATORS
// =============================================================================
// ASCII shape indicators accompany color so states stay distinguishable
// for colorblind users.

// RenderSuccess renders a success message with a high-contrast indicator.
func RenderSuccess(message string) string {
	return SuccessText.Render("[OK] " + message)
}

// RenderError renders an error message with a high-contrast indicator.
func RenderError(message string) string {
	return ErrorText.Render("[X] " + message)
}

// RenderWarning renders a warning message with a high-contrast indicator.
func RenderWarning(message string) string {
	return lipgloss.NewStyle().Foreground(Amber).Bold(true).Render("[!] " + message)
}

// StatusStyle returns the style for a leave request status cell.
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case "approved":
		return lipgloss.NewStyle().Foreground(Emerald)
	case "rejected":
		return lipgloss.NewStyle().Foreground(Rose)
	default:
		return lipgloss.NewStyle().Foreground(Amber)
	}
}
