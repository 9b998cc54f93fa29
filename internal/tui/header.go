package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stratus-io/stratus/internal/status"
)

// renderHeader draws the one-line top bar: product name, overall status
// badge, and the wall-clock time of the last settled batch.
func renderHeader(m *Model, width int) string {
	title := headerStyle.Render("☁ stratus")

	var badge string
	switch {
	case m.executing:
		badge = badgeBusyStyle.Render(m.spin.View() + " Executing agents...")
	case len(m.rows) == 0:
		badge = badgeIdleStyle.Render("No data yet")
	default:
		worst := status.Worst(m.rows)
		badge = badgeAlertStyle.Foreground(statusColor(worst)).Render("● " + worst)
	}

	refresh := "Last refresh N/A"
	if !m.lastRun.IsZero() {
		refresh = "Last refresh " + m.lastRun.Format("15:04:05")
	}
	right := feedTimeStyle.Render(refresh)

	left := title + "  " + badge
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
