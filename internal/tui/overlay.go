package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// renderOverlay composites a box over the background view, centered both
// ways. Covered background lines are spliced with ansi-aware cuts so
// styling survives on either side of the box.
func renderOverlay(background, box string, width, height int) string {
	boxLines := strings.Split(box, "\n")
	boxWidth := 0
	for _, l := range boxLines {
		if w := ansi.StringWidth(l); w > boxWidth {
			boxWidth = w
		}
	}

	x := (width - boxWidth) / 2
	y := (height - len(boxLines)) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	bgLines := strings.Split(background, "\n")
	for len(bgLines) < y+len(boxLines) {
		bgLines = append(bgLines, "")
	}

	for i, boxLine := range boxLines {
		row := y + i
		line := bgLines[row]
		lineWidth := ansi.StringWidth(line)

		left := ansi.Cut(line, 0, x)
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}

		var right string
		if cutoff := x + boxWidth; lineWidth > cutoff {
			right = ansi.Cut(line, cutoff, lineWidth)
		}

		pad := strings.Repeat(" ", boxWidth-ansi.StringWidth(boxLine))
		bgLines[row] = left + boxLine + pad + right
	}
	return strings.Join(bgLines, "\n")
}
