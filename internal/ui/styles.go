package ui

import "github.com/charmbracelet/lipgloss"

// Lip Gloss styles for the interactive views, rebuilt on SetTheme.
var (
	TitleStyle    lipgloss.Style
	AccentStyle   lipgloss.Style
	MutedStyle    lipgloss.Style
	ErrorStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	EditStyle     lipgloss.Style
	HelpStyle     lipgloss.Style
	BoxStyle      lipgloss.Style
)

func init() { applyStyles(current) }

func applyStyles(t Theme) {
	TitleStyle = lipgloss.NewStyle().Bold(true)
	AccentStyle = lipgloss.NewStyle()
	MutedStyle = lipgloss.NewStyle().Faint(true)
	ErrorStyle = lipgloss.NewStyle().Bold(true)
	SelectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	EditStyle = lipgloss.NewStyle().Underline(true)
	HelpStyle = lipgloss.NewStyle().Faint(true)
	BoxStyle = lipgloss.NewStyle().Padding(0, 1)

	border := lipgloss.RoundedBorder()
	if t.Name == "mono" {
		border = lipgloss.NormalBorder()
	}
	BoxStyle = BoxStyle.Border(border)
	if t.AccentColor != "" {
		AccentStyle = AccentStyle.Foreground(lipgloss.Color(t.AccentColor))
		TitleStyle = TitleStyle.Foreground(lipgloss.Color(t.AccentColor))
	}
	if t.ErrorColor != "" {
		ErrorStyle = ErrorStyle.Foreground(lipgloss.Color(t.ErrorColor))
	}
	if t.MutedColor != "" {
		BoxStyle = BoxStyle.BorderForeground(lipgloss.Color(t.MutedColor))
	}
}

// Box frames inner with the current border style.
func Box(inner string) string { return BoxStyle.Render(inner) }
