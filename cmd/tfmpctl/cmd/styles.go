package cmd

import "github.com/charmbracelet/lipgloss"

var (
	// errStyle renders error prefixes.
	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true)

	// okStyle renders success markers.
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("2")).
		Bold(true)

	// labelStyle renders field labels in key/value output.
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	// valueStyle renders field values.
	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	// dimStyle renders secondary information such as units.
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	// warnStyle renders degraded-signal readings.
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("3")).
			Bold(true)
)
