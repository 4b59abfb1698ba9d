package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("208")

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(accent)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	userLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	botLabelStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)

	userBubbleStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Background(accent).
			Foreground(lipgloss.Color("231"))
	botBubbleStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Background(lipgloss.Color("238")).
			Foreground(lipgloss.Color("252"))

	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 3)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("250")).Underline(true)
	quantityStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
)
