// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared terminal styling for all CLI commands.
package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// welcomeStyle is used for the chat banner title.
	welcomeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")). // Purple
			Bold(true)

	// promptStyle is used for the input prompt.
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // Cyan
			Bold(true)

	// headerStyle is used for section headers (/stats, /history).
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // Cyan
			Bold(true)

	// infoStyle is used for secondary information and labels.
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // Light gray

	// commandStyle is used for command feedback and values.
	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // Green

	// warningStyle is used for degraded-mode and configuration warnings.
	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Amber

	// errorStyle is used for error messages.
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")). // Red
			Bold(true)

	// userStyle and assistantStyle label transcript roles.
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // Cyan

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")) // Purple
)

// separator renders a horizontal divider line.
func separator(width int) string {
	if width <= 0 {
		width = 30
	}
	return infoStyle.Render(strings.Repeat("─", width))
}
