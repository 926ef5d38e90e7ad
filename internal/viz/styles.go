package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles derived from the current theme. restyle rebuilds them when the
// theme changes.
var (
	canvasStyle lipgloss.Style
	statsStyle  lipgloss.Style
	headerStyle lipgloss.Style
	labelStyle  lipgloss.Style
	valueStyle  lipgloss.Style
	graphStyle  lipgloss.Style
	helpStyle   lipgloss.Style

	statusRunning   lipgloss.Style
	statusPaused    lipgloss.Style
	statusRecording lipgloss.Style
)

func restyle() {
	t := CurrentTheme
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.Muted).
		Padding(1, 2).
		Width(42)
	headerStyle = lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1)
	labelStyle = lipgloss.NewStyle().Foreground(t.Muted).Width(10)
	valueStyle = lipgloss.NewStyle().Foreground(t.Text)
	graphStyle = lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0)
	helpStyle = lipgloss.NewStyle().Foreground(t.Muted).MarginTop(2)

	statusRunning = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	statusPaused = lipgloss.NewStyle().Bold(true).Foreground(t.Muted)
	statusRecording = lipgloss.NewStyle().Bold(true).Foreground(t.Warning)
}

func init() { restyle() }

// ProgressBar renders playback position as a fixed-width bar.
func ProgressBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}
