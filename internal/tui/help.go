package tui

import (
	"strings"
)

// renderHelp draws the help overlay: the command registry followed by the
// key reference.
func renderHelp() string {
	var b strings.Builder
	b.WriteString(overlayTitleStyle.Render("stratus dashboard"))
	b.WriteString("\n")
	b.WriteString(detailSectionStyle.Render("Commands"))
	for _, c := range commands {
		name := commandPrefix + c.name
		if len(c.aliases) > 0 {
			parts := make([]string, 0, len(c.aliases))
			for _, a := range c.aliases {
				parts = append(parts, commandPrefix+a)
			}
			name += " (" + strings.Join(parts, ", ") + ")"
		}
		b.WriteString("\n  ")
		b.WriteString(keyStyle.Render(padCell(name, 30)))
		b.WriteString(overlayDimStyle.Render(c.description))
	}

	b.WriteString("\n\n")
	b.WriteString(detailSectionStyle.Render("Keys"))
	keyRows := []struct {
		keys string
		desc string
	}{
		{"↑/↓", "scroll the feed one line"},
		{"PgUp/PgDn", "scroll the feed one page"},
		{"Home", "jump to the oldest entry"},
		{"End", "follow the newest entries"},
		{"←/→", "previous/next agent in detail view"},
		{"Esc", "close overlay or leave detail view"},
		{"Ctrl+C", "quit"},
	}
	for _, r := range keyRows {
		b.WriteString("\n  ")
		b.WriteString(keyStyle.Render(padCell(r.keys, 30)))
		b.WriteString(overlayDimStyle.Render(r.desc))
	}

	return overlayStyle.Render(b.String())
}
