package components

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Cell pads or truncates s to exactly width terminal columns. Wide runes
// and Arabic text are measured by display width, not byte length.
func Cell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

// RightCell is Cell aligned to the right.
func RightCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		return runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillLeft(s, width)
}

// Row joins cells with two spaces.
func Row(cells ...string) string {
	return strings.Join(cells, "  ")
}
