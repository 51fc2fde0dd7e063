// Package display provides the terminal UI using Bubble Tea.
//
// The [Model] type is the root program model: an auth screen, then a
// two-tab dashboard (ingredients, recipe suggestions) that can push into a
// recipe detail/edit view. All remote work runs in commands; results come
// back as messages tagged with a sequence number so replies addressed to a
// view that has since been torn down are discarded.
package display

import "github.com/charmbracelet/lipgloss"

// ── Styles (soft palette) ────────────────────────────────────────

var (
	headerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#27272a")).
			Foreground(lipgloss.Color("#d4d4d8")).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Padding(0, 2)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd")).
			Bold(true).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Bold(true)

	// Primary text — light zinc.
	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	// Secondary text — dimmed zinc for hints and metadata.
	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	// Soft mint for selected/available markers.
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	// Soft amber for missing-ingredient markers.
	missingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	// Soft coral for errors.
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd")).
			Bold(true)

	matchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))
)
