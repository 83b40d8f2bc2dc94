// Package style provides shared UI styling primitives including brand colors,
// icons and the text styles used by the memo CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
)

// Text styles.
var (
	Header = lipgloss.NewStyle().Bold(true).Foreground(Iris)
	Key    = lipgloss.NewStyle().Foreground(Slate)
	Hash   = lipgloss.NewStyle().Foreground(Yellow)
	Muted  = lipgloss.NewStyle().Faint(true)
)
