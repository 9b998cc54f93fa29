package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/stratus-io/stratus/internal/feed"
	"github.com/stratus-io/stratus/internal/models"
	"github.com/stratus-io/stratus/internal/status"
)

func (m Model) viewDashboard() string {
	header := renderHeader(&m, m.width)
	table := renderTable(&m, m.width)
	frame := feedFrameStyle.Width(m.width - 2).Render(renderFeed(m.feed, m.feedHeight(), m.width-2))
	input := m.input.View()
	bar := renderStatusBar(&m, m.width)

	view := lipgloss.JoinVertical(lipgloss.Left, header, table, frame, input, bar)

	if m.paletteOpen {
		view = renderOverlay(view, renderPalette(m.paletteMatches(), m.paletteSel), m.width, m.height)
	}
	if m.showHelp {
		view = renderOverlay(view, renderHelp(), m.width, m.height)
	}
	return view
}

// tableRow is one display row, either a settled result or an idle
// placeholder for a registered agent that has not run yet.
type tableRow struct {
	name    string
	dot     string
	label   string
	summary string
	color   lipgloss.AdaptiveColor
}

// displayRows derives the table contents. Settled results win; before the
// first batch the registered agents show as idle placeholders.
func displayRows(rows []status.Row, agents []models.AgentInfo) []tableRow {
	if len(rows) > 0 {
		out := make([]tableRow, 0, len(rows))
		for _, r := range rows {
			tr := tableRow{
				name:    r.Name,
				dot:     "●",
				label:   r.Status,
				summary: r.Summary,
				color:   statusColor(r.Status),
			}
			if r.Executing {
				tr.label = "Running"
				tr.color = colorCyan
			}
			out = append(out, tr)
		}
		return out
	}
	out := make([]tableRow, 0, len(agents))
	for _, a := range agents {
		summary := a.Description
		if summary == "" {
			summary = "Not run yet"
		}
		out = append(out, tableRow{
			name:    a.Name,
			dot:     "○",
			label:   string(models.StateIdle),
			summary: summary,
			color:   colorDim,
		})
	}
	return out
}

// renderTable draws the agent table with its column header.
func renderTable(m *Model, width int) string {
	const statusWidth = 18
	rows := displayRows(m.rows, m.agents)

	nameWidth := 12
	for _, r := range rows {
		if w := lipgloss.Width(r.name); w > nameWidth {
			nameWidth = w
		}
	}
	summaryWidth := width - nameWidth - statusWidth - 8
	if summaryWidth < 10 {
		summaryWidth = 10
	}

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(tableHeaderStyle.Render(padCell("AGENT", nameWidth) + "  " + padCell("STATUS", statusWidth) + "  SUMMARY"))
	if len(rows) == 0 {
		b.WriteString("\n  ")
		b.WriteString(tableSummaryStyle.Render("No agents registered"))
		return b.String()
	}
	for _, r := range rows {
		b.WriteString("\n  ")
		b.WriteString(tableNameStyle.Render(padCell(r.name, nameWidth)))
		b.WriteString("  ")
		b.WriteString(lipgloss.NewStyle().Foreground(r.color).Render(padCell(r.dot+" "+r.label, statusWidth)))
		b.WriteString("  ")
		b.WriteString(tableSummaryStyle.Render(ansi.Truncate(r.summary, summaryWidth, "…")))
	}
	return b.String()
}

// renderFeed renders the visible feed window, padded to exactly height
// lines so the frame never collapses.
func renderFeed(f *feed.Feed, height, width int) string {
	entries := f.Window(height)
	lines := make([]string, 0, height)
	for _, e := range entries {
		lines = append(lines, renderEntry(e, width))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func renderEntry(e feed.Entry, width int) string {
	line := feedTimeStyle.Render(e.Time.Format("15:04:05")) + " "
	if e.Source != "" {
		line += feedSourceStyle.Render("["+e.Source+"]") + " "
	}
	line += levelStyle(e.Level).Render(e.Message)
	return ansi.Truncate(line, width, "…")
}

func levelStyle(l feed.Level) lipgloss.Style {
	switch l {
	case feed.LevelWarn:
		return feedWarnStyle
	case feed.LevelError:
		return feedErrorStyle
	case feed.LevelSuccess:
		return feedSuccessStyle
	case feed.LevelSystem:
		return feedSystemStyle
	default:
		return feedInfoStyle
	}
}

// padCell pads a cell to a display width, rune aware.
func padCell(s string, w int) string {
	if gap := w - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
