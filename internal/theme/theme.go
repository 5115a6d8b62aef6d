// Package theme holds the lipgloss styles used for terminal output.
package theme

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Section = lipgloss.NewStyle().
		Bold(true).
		Foreground(Secondary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Roadmap items
var (
	Done = lipgloss.NewStyle().
		Foreground(Success)

	Pending = lipgloss.NewStyle().
		Foreground(Text)

	ID = lipgloss.NewStyle().
		Foreground(TextDim)

	XP = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	Failure = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// Checkbox renders a leaf's completion box.
func Checkbox(done bool) string {
	if done {
		return Done.Render("[x]")
	}
	return Pending.Render("[ ]")
}

// ProgressBar renders pct (0-100) as a bar of the given width followed by
// the percentage.
func ProgressBar(pct, width int) string {
	if width < 4 {
		width = 4
	}
	pct = max(0, min(100, pct))

	filled := width * pct / 100
	bar := lipgloss.NewStyle().Foreground(Secondary).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(Border).Render(strings.Repeat("░", width-filled))

	return bar + Hint.Render(fmt.Sprintf(" %3d%%", pct))
}

// Width is the printable width of s.
func Width(s string) int {
	return lipgloss.Width(s)
}
