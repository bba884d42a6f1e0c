package cli

import "github.com/charmbracelet/lipgloss"

// Styles degrade to plain text when output is not a terminal.
var (
	accent      = lipgloss.Color("#8BC34A")
	info        = lipgloss.Color("#2196F3")
	destructive = lipgloss.Color("#e53935")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	coachStyle = lipgloss.NewStyle().Bold(true).Foreground(info)
	errorStyle = lipgloss.NewStyle().Foreground(destructive)
	mutedStyle = lipgloss.NewStyle().Faint(true)
)

// coachColors gives each coach a stable tag color.
var coachColors = map[string]lipgloss.Color{
	"iron":       lipgloss.Color("#e57373"),
	"yoga":       lipgloss.Color("#4db6ac"),
	"hiit":       lipgloss.Color("#ffd54f"),
	"kickboxing": lipgloss.Color("#ff8a65"),
}

func coachTag(coach string) string {
	style := coachStyle
	if c, ok := coachColors[coach]; ok {
		style = style.Foreground(c)
	}
	return style.Render("[" + coach + "]")
}
