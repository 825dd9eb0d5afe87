package tui

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles the renderer applies.
type Styles struct {
	Title          lipgloss.Style
	Heading        lipgloss.Style
	Text           lipgloss.Style
	Quote          lipgloss.Style
	Author         lipgloss.Style
	Error          lipgloss.Style
	Loading        lipgloss.Style
	Button         lipgloss.Style
	ButtonFocused  lipgloss.Style
	ButtonDisabled lipgloss.Style
	Help           lipgloss.Style
}

// DefaultStyles returns the built-in color scheme.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		Heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#87CEEB")),
		Text: lipgloss.NewStyle(),
		Quote: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#90EE90")).
			PaddingLeft(2),
		Author: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98")).
			PaddingLeft(4),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")),
		Loading: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
		Button: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Padding(0, 1),
		ButtonFocused: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		ButtonDisabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444")).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
	}
}
