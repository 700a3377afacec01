// Package presenter formats report results for terminal display.
package presenter

import "github.com/charmbracelet/lipgloss"

// Styles using Lip Gloss
var (
	// Color palette
	primaryColor   = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7C79FF"}
	secondaryColor = lipgloss.AdaptiveColor{Light: "#EE6FF8", Dark: "#F780FF"}
	successColor   = lipgloss.AdaptiveColor{Light: "#02BA84", Dark: "#02D98E"}
	warningColor   = lipgloss.AdaptiveColor{Light: "#FF8C00", Dark: "#FFA500"}
	mutedColor     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}

	// Report banner
	bannerStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	// Section heading
	headerStyle = lipgloss.NewStyle().
			Foreground(secondaryColor).
			Bold(true).
			MarginTop(1)

	// Section body
	bodyStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	labelStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	valueStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	skippedStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Italic(true)

	emptyStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)
)
