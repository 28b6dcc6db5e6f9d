package prompt

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	// Title style for the dialog prompt.
	Title lipgloss.Style

	// Normal style for options.
	Normal lipgloss.Style

	// Cursor style for the highlighted option.
	Cursor lipgloss.Style

	// Checked style for chosen options.
	Checked lipgloss.Style

	// Muted style for key help.
	Muted lipgloss.Style

	// Box frames notifications.
	Box lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() *Styles {
	return &Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		Normal:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Cursor:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Checked: lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1),
	}
}
