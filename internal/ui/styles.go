// Package ui contains the terminal dashboard: a live agent watch page, a
// cartridge browser, and a play view, composed as bubbletea models.
package ui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles shared by every page.
type Styles struct {
	Header    lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Title     lipgloss.Style
	Dim       lipgloss.Style
	Online    lipgloss.Style
	Offline   lipgloss.Style
	Error     lipgloss.Style
	Selected  lipgloss.Style
	Badge     lipgloss.Style
	Dialog    lipgloss.Style
	Help      lipgloss.Style
}

// DefaultStyles returns the dashboard color scheme.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")),
		Tab:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1),
		Title:     lipgloss.NewStyle().Bold(true),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Online:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		Offline:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		Selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Badge:     lipgloss.NewStyle().Foreground(lipgloss.Color("215")),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("203")).
			Padding(1, 2),
		Help: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}
