// Package tui provides the interactive terminal interface for daily.
package tui

import "charm.land/lipgloss/v2"

// Palette.
var (
	ColorAccent  = lipgloss.Color("#7C3AED")
	ColorDone    = lipgloss.Color("#10B981")
	ColorDue     = lipgloss.Color("#F59E0B")
	ColorError   = lipgloss.Color("#EF4444")
	ColorMuted   = lipgloss.Color("#6B7280")
	ColorText    = lipgloss.Color("#E5E7EB")
	ColorSurface = lipgloss.Color("#1F2937")
	ColorBorder  = lipgloss.Color("#374151")
)

// Component styles.
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorSurface).
			Foreground(ColorText).
			Padding(0, 1)

	FormBorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	BannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDue).
			Foreground(ColorDue).
			Bold(true).
			Padding(0, 1)
)
