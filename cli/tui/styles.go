package tui

import "github.com/charmbracelet/lipgloss"

var (
	// UI colors.
	colorTitle  = lipgloss.Color("#FFFFFF")
	colorSubtle = lipgloss.Color("#666666")
	colorAccent = lipgloss.Color("#7D56F4")
	colorCost   = lipgloss.Color("#A3BE8C")
	colorError  = lipgloss.Color("#FF6B6B")
	colorModel  = lipgloss.Color("#88C0D0")

	// Styles.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorTitle)

	subtleStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)

	modelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorModel)

	selectedModelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent)

	costStyle = lipgloss.NewStyle().
			Foreground(colorCost)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorError)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorSubtle)

	promptBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)
)
