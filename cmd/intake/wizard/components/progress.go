package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	progressBarStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("63"))

	progressBarEmptyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	progressLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))
)

// ProgressBar renders "Step n of total" with a bar of the given width.
// step is zero-based.
func ProgressBar(step, total, width int) string {
	if total <= 0 {
		return ""
	}
	if width <= 0 {
		width = 40
	}
	filled := (step + 1) * width / total
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := progressBarStyle.Render("[" + strings.Repeat("█", filled))
	bar += progressBarEmptyStyle.Render(strings.Repeat("░", width-filled) + "]")
	return bar + " " + progressLabelStyle.Render(fmt.Sprintf("Step %d of %d", step+1, total))
}
