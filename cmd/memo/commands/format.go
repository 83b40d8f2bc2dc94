package commands

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// columnWidth returns the display width of the widest first column.
func columnWidth(rows [][2]string) int {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r[0]))
	}
	return width
}

func pad(s string, width int) string {
	return s + strings.Repeat(" ", max(0, width-lipgloss.Width(s)))
}
