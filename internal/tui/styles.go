package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorSteelBlue = lipgloss.Color("#4682b4")
	ColorOrange    = lipgloss.Color("#ffa500")
	ColorPurple    = lipgloss.Color("#AA55FF")
	ColorCyan      = lipgloss.Color("#00FFFF")
	ColorDarkGray  = lipgloss.Color("8")
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(ColorCyan).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(ColorOrange)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorDarkGray)
	pointStyle  = lipgloss.NewStyle().Foreground(ColorSteelBlue)
	storyStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorPurple).Padding(0, 1)
	activeStyle = lipgloss.NewStyle().Foreground(ColorPurple).Bold(true)
)

// markerStyle colors a breakdown marker with its type color.
func markerStyle(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}
