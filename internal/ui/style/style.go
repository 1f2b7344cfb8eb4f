// Package style holds the colors, icons and text styles shared by the command output and the logger.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Amber  = lipgloss.Color("#F59E0B")
	Slate  = lipgloss.Color("#667085")
	Steel  = lipgloss.Color("#94A3B8")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#EAB308")
	Cyan   = lipgloss.Color("#06B6D4")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Reload  = "↻"
	Eye     = "◉"
	Dash    = "─"
)

// Text styles.
var (
	Heading = lipgloss.NewStyle().Bold(true).Foreground(Amber)
	Muted   = lipgloss.NewStyle().Foreground(Slate)
	Kind    = lipgloss.NewStyle().Foreground(Cyan).Width(10)
	Success = lipgloss.NewStyle().Foreground(Green)
	Failure = lipgloss.NewStyle().Foreground(Red)
)

// KindLabel renders a file kind column such as "rules" or "weapons".
func KindLabel(kind string) string {
	return Kind.Render(kind)
}
