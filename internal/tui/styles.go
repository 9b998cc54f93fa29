package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/stratus-io/stratus/internal/status"
)

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorOrange = lipgloss.AdaptiveColor{Light: "166", Dark: "208"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

// Layout styles.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true)

	statusBarBg = lipgloss.AdaptiveColor{Light: "253", Dark: "236"}

	feedFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim)
)

// Status bar segment styles. Each carries the bar background so the bar
// stays solid across segment boundaries.
var (
	barFillStyle = lipgloss.NewStyle().Background(statusBarBg)
	barKeyStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Background(statusBarBg)
	barHintStyle = lipgloss.NewStyle().Foreground(colorDim).Background(statusBarBg)
	barOkStyle   = lipgloss.NewStyle().Foreground(colorGreen).Background(statusBarBg)
	barWarnStyle = lipgloss.NewStyle().Foreground(colorYellow).Background(statusBarBg)
)

// Header badge styles.
var (
	badgeIdleStyle  = lipgloss.NewStyle().Foreground(colorDim)
	badgeBusyStyle  = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	badgeAlertStyle = lipgloss.NewStyle().Bold(true)
)

// Agent table styles.
var (
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorDim)

	tableNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	tableSummaryStyle = lipgloss.NewStyle().
				Foreground(colorDim)
)

// Feed entry styles, one per level.
var (
	feedTimeStyle    = lipgloss.NewStyle().Foreground(colorDim)
	feedSourceStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	feedInfoStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	feedWarnStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	feedErrorStyle   = lipgloss.NewStyle().Foreground(colorRed)
	feedSuccessStyle = lipgloss.NewStyle().Foreground(colorGreen)
	feedSystemStyle  = lipgloss.NewStyle().Foreground(colorCyan)
)

// Detail view styles.
var (
	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite)

	detailLabelStyle = lipgloss.NewStyle().
				Width(26).
				Foreground(colorDim)

	detailValueStyle = lipgloss.NewStyle().
				Foreground(colorWhite)

	detailSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorCyan)
)

// Overlay styles.
var (
	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorWhite).
			Padding(1, 2)

	overlayTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite).
				MarginBottom(1)

	overlayDimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	selectedItemStyle = lipgloss.NewStyle().
				Background(lipgloss.AdaptiveColor{Light: "254", Dark: "237"})
)

// keyStyle highlights key names and command names inside overlays.
var keyStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)

// statusColor maps a dashboard status label to its display color.
func statusColor(label string) lipgloss.AdaptiveColor {
	switch label {
	case status.Operational:
		return colorGreen
	case status.Issues, status.Degraded:
		return colorYellow
	case status.MajorOutage:
		return colorOrange
	case status.CriticalOutage:
		return colorRed
	default:
		return colorDim
	}
}
