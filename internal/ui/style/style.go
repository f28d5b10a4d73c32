// Package style provides shared UI styling primitives including brand colors
// and icons for consistent visual presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Cyan   = lipgloss.Color("#06B6D4")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "●"
)

// Task renders a task name the way it appears in progress lines.
func Task(name string) string {
	return lipgloss.NewStyle().Foreground(Cyan).Render("'" + name + "'")
}

// Elapsed renders a task duration.
func Elapsed(d string) string {
	return lipgloss.NewStyle().Foreground(Iris).Render(d)
}

// URL renders an address in the startup banner.
func URL(u string) string {
	return lipgloss.NewStyle().Foreground(Iris).Bold(true).Underline(true).Render(u)
}
