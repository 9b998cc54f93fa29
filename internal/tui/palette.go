package tui

import (
	"strings"
)

// renderPalette draws the command palette overlay: every registry entry
// matching the query, with the selected row highlighted.
func renderPalette(matches []command, sel int) string {
	var rows []string
	if len(matches) == 0 {
		rows = append(rows, overlayDimStyle.Render("No matching commands"))
	} else {
		nameWidth := 0
		for _, c := range matches {
			if w := len(commandPrefix + c.name); w > nameWidth {
				nameWidth = w
			}
		}
		for i, c := range matches {
			name := padCell(commandPrefix+c.name, nameWidth+2)
			if i == sel {
				rows = append(rows, selectedItemStyle.Render(name+c.description))
				continue
			}
			rows = append(rows, keyStyle.Render(name)+overlayDimStyle.Render(c.description))
		}
	}
	content := overlayTitleStyle.Render("Commands") + "\n" + strings.Join(rows, "\n")
	return overlayStyle.Render(content)
}
