package render

import "github.com/charmbracelet/lipgloss"

// Variant label colors follow the dashboard palette: purple assistant,
// blue user, green/red result, gray system.
var (
	assistantColor = lipgloss.Color("135")
	userColor      = lipgloss.Color("39")
	successColor   = lipgloss.Color("78")
	failureColor   = lipgloss.Color("203")
	systemColor    = lipgloss.Color("245")
	metaColor      = lipgloss.Color("240")
)

// Styles holds the lipgloss styles used by the transcript renderer.
type Styles struct {
	Assistant lipgloss.Style
	User      lipgloss.Style
	Success   lipgloss.Style
	Failure   lipgloss.Style
	System    lipgloss.Style
	Meta      lipgloss.Style
	ToolName  lipgloss.Style
	Body      lipgloss.Style
}

// DefaultStyles builds the colored style set.
func DefaultStyles() Styles {
	return Styles{
		Assistant: lipgloss.NewStyle().Bold(true).Foreground(assistantColor),
		User:      lipgloss.NewStyle().Bold(true).Foreground(userColor),
		Success:   lipgloss.NewStyle().Bold(true).Foreground(successColor),
		Failure:   lipgloss.NewStyle().Bold(true).Foreground(failureColor),
		System:    lipgloss.NewStyle().Bold(true).Foreground(systemColor),
		Meta:      lipgloss.NewStyle().Foreground(metaColor),
		ToolName:  lipgloss.NewStyle().Foreground(userColor),
		Body:      lipgloss.NewStyle(),
	}
}

// PlainStyles builds an uncolored style set for pipes and log files.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Assistant: plain,
		User:      plain,
		Success:   plain,
		Failure:   plain,
		System:    plain,
		Meta:      plain,
		ToolName:  plain,
		Body:      plain,
	}
}
