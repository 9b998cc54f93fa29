package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/stratus-io/stratus/internal/models"
	"github.com/stratus-io/stratus/internal/status"
)

// detailMessageLimit caps how many trailing messages the detail view shows.
const detailMessageLimit = 12

// viewDetail renders the full-screen result browser for one agent.
func (m Model) viewDetail() string {
	if m.detailIdx >= len(m.results) {
		return ""
	}
	r := m.results[m.detailIdx]
	width := m.width - 4

	title := detailTitleStyle.Render(r.AgentName)
	counter := feedTimeStyle.Render(fmt.Sprintf("agent %d of %d", m.detailIdx+1, len(m.results)))
	gap := width - lipgloss.Width(title) - lipgloss.Width(counter)
	if gap < 1 {
		gap = 1
	}
	head := title + strings.Repeat(" ", gap) + counter

	label := status.Derive(r)
	badge := lipgloss.NewStyle().Bold(true).Foreground(statusColor(label)).Render("● " + label)

	lines := []string{
		head,
		"",
		badge,
		detailValueStyle.Render(status.Summarize(r)),
		"",
		detailLabelStyle.Render("Execution status") + detailValueStyle.Render(r.Status),
		detailLabelStyle.Render("Execution time") + detailValueStyle.Render(fmt.Sprintf("%.2fs", r.ExecutionTime)),
	}

	if metrics := metricLines(r.Metrics); len(metrics) > 0 {
		lines = append(lines, "", detailSectionStyle.Render("Key metrics"))
		lines = append(lines, metrics...)
	}

	if len(r.Messages) > 0 {
		msgs := r.Messages
		header := "Messages"
		if len(msgs) > detailMessageLimit {
			header = fmt.Sprintf("Messages (last %d of %d)", detailMessageLimit, len(msgs))
			msgs = msgs[len(msgs)-detailMessageLimit:]
		}
		lines = append(lines, "", detailSectionStyle.Render(header))
		for _, msg := range msgs {
			lines = append(lines, "  "+feedInfoStyle.Render(ansi.Truncate(msg, width-2, "…")))
		}
	}

	if r.Error != "" {
		lines = append(lines, "", feedErrorStyle.Render(ansi.Truncate("Error: "+r.Error, width, "…")))
	}

	body := lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
	bar := renderStatusBar(&m, m.width)

	fill := m.height - lipgloss.Height(body) - 1
	if fill < 0 {
		fill = 0
	}
	return body + strings.Repeat("\n", fill) + bar
}

// metricLines formats a metrics variant as aligned label/value rows.
func metricLines(metrics models.Metrics) []string {
	row := func(label string, value any) string {
		return detailLabelStyle.Render(label) + detailValueStyle.Render(fmt.Sprintf("%v", value))
	}

	switch v := metrics.(type) {
	case models.StatusPageMetrics:
		lines := []string{}
		if v.Indicator != "" {
			lines = append(lines, row("Indicator", v.Indicator))
		}
		lines = append(lines,
			row("Unresolved incidents", v.UnresolvedIncidents),
			row("Recent incidents (7d)", v.RecentIncidents7d),
			row("Scheduled maintenance", v.ScheduledMaintenance),
			row("In-progress maintenance", v.InProgressMaintenance),
		)
		return lines
	case models.EventFeedMetrics:
		return []string{
			row("Current events", v.CurrentEvents),
			row("Recent events (7d)", v.RecentEvents7d),
		}
	case models.IncidentFeedMetrics:
		return []string{
			row("Current incidents", v.CurrentIncidents),
			row("Recent incidents (7d)", v.RecentIncidents7d),
			row("Total incidents", v.TotalIncidents),
		}
	case models.OpaqueMetrics:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, row(k, v[k]))
		}
		return lines
	default:
		return nil
	}
}
