package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// keyHint renders one key/description pair for the status bar.
func keyHint(b key.Binding) string {
	h := b.Help()
	return barKeyStyle.Render(h.Key) + barHintStyle.Render(" "+h.Desc)
}

func plainHint(keys, desc string) string {
	return barKeyStyle.Render(keys) + barHintStyle.Render(" "+desc)
}

// renderStatusBar draws the bottom bar: context-sensitive key hints on the
// left, the backend connection on the right.
func renderStatusBar(m *Model, width int) string {
	var hints []string
	switch {
	case m.showHelp:
		hints = []string{keyHint(helpKeys.Close)}
	case m.mode == modeDetail:
		hints = []string{
			keyHint(detailKeys.Prev),
			keyHint(detailKeys.Back),
			keyHint(globalKeys.Quit),
		}
	case m.paletteOpen:
		hints = []string{
			plainHint("↑/↓", "select"),
			plainHint("Enter", "insert"),
			plainHint("Esc", "close"),
		}
	default:
		hints = []string{
			plainHint("/", "commands"),
			keyHint(feedKeys.Up),
			keyHint(feedKeys.PageUp),
			keyHint(feedKeys.End),
			keyHint(globalKeys.Quit),
		}
	}
	left := barFillStyle.Render(" ") + strings.Join(hints, barHintStyle.Render(" · "))
	right := connSegment(m) + barFillStyle.Render(" ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		left = ansi.Truncate(left, width-lipgloss.Width(right)-1, "…")
		gap = width - lipgloss.Width(left) - lipgloss.Width(right)
		if gap < 0 {
			gap = 0
		}
	}
	return left + barFillStyle.Render(strings.Repeat(" ", gap)) + right
}

// connSegment summarizes where agents execute: in-process, or a daemon
// that is either reachable or not.
func connSegment(m *Model) string {
	if m.target == "local" {
		return barHintStyle.Render("local agents")
	}
	target := m.target
	if len(target) > 32 {
		target = target[:32] + "…"
	}
	if !m.connKnown {
		return barHintStyle.Render("connecting to " + target)
	}
	if m.connected {
		return barOkStyle.Render("● "+target) + barHintStyle.Render(" connected")
	}
	return barWarnStyle.Render("⚠ " + target + " disconnected")
}
