package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Primary   = lipgloss.Color("#1E3BA3")
	Accent    = lipgloss.Color("#F4D35E")
	Completed = lipgloss.Color("#2ECC71")
	Danger    = lipgloss.Color("#FF6B6B")
	Surface   = lipgloss.Color("#16213e")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	ListStyle = lipgloss.NewStyle().
			Padding(1, 2)

	TaskItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TaskItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	TaskDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true).
			Padding(0, 1)

	OverdueStyle = lipgloss.NewStyle().
			Foreground(Danger)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	FormStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Danger)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)

	LabelStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)
