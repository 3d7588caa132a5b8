package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	Frame        lipgloss.Style
	Title        lipgloss.Style
	Connected    lipgloss.Style
	Disconnected lipgloss.Style
	Error        lipgloss.Style
	Help         lipgloss.Style
	Spinner      lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Frame:        lipgloss.NewStyle().Padding(1, 2),
		Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		Connected:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Disconnected: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Help:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Spinner:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	}
}
