package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED") // violet
	Secondary = lipgloss.Color("#06B6D4") // cyan
	Success   = lipgloss.Color("#22C55E") // green
	Error     = lipgloss.Color("#EF4444") // red
	Muted     = lipgloss.Color("#6B7280") // gray
	Text      = lipgloss.Color("#E5E7EB") // light gray
	Grid      = lipgloss.Color("#374151") // dark gray

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Label = lipgloss.NewStyle().
		Foreground(Muted).
		Width(10)

	Button = lipgloss.NewStyle().
		Foreground(Muted).
		Padding(0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted)

	ActiveButton = Button.
			Foreground(Primary).
			Bold(true).
			BorderForeground(Primary)

	Caption = lipgloss.NewStyle().
		Foreground(Text).
		Align(lipgloss.Center)

	FoundCaption = Caption.
			Foreground(Success)

	Pin = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	StatusBar = lipgloss.NewStyle().
			Foreground(Muted).
			MarginTop(1)

	Border = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Muted).
		Padding(1, 2)

	MapFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted)

	Modal = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(Error).
		Padding(1, 3)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)
