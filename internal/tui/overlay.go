package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// compositeAt paints the dialog string onto the base view at cell position
// (x, y). Both are treated as line-based grids; rows outside the base are
// dropped rather than grown, so a stale rectangle can never distort the
// window.
func compositeAt(base, dialog string, x, y, width int) string {
	baseLines := splitLines(base)
	dialogLines := splitLines(dialog)
	dialogWidth := maxLineWidth(dialogLines)
	for i, line := range dialogLines {
		row := y + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		target := padRight(baseLines[row], width)
		left := ansi.Truncate(target, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}

		dialogLine := padRight(line, dialogWidth)
		pos := x + ansi.StringWidth(dialogLine)
		right := ""
		if width > 0 {
			right = ansi.TruncateLeft(target, pos, "")
			if gap := width - pos - ansi.StringWidth(right); gap > 0 {
				right = strings.Repeat(" ", gap) + right
			}
		}

		baseLines[row] = left + dialogLine + right
	}
	return strings.Join(baseLines, "\n")
}

// splitLines never returns an empty slice; an empty string counts as one
// blank row, which keeps the row arithmetic above simple.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

func maxLineWidth(lines []string) int {
	widest := 0
	for _, line := range lines {
		if w := ansi.StringWidth(line); w > widest {
			widest = w
		}
	}
	return widest
}

// padRight extends s with spaces to width cells. Width is visual, not
// bytes, so styled text pads correctly.
func padRight(s string, width int) string {
	gap := width - ansi.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}
