package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText breaks s into lines no wider than width terminal cells. Lines
// break between words when possible; runs without spaces, such as CJK text,
// break between runes.
func wrapText(s string, width int) []string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return []string{s}
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	flush := func() {
		lines = append(lines, line.String())
		line.Reset()
		lineWidth = 0
	}
	for _, word := range strings.Fields(s) {
		if lineWidth > 0 {
			if lineWidth+1+runewidth.StringWidth(word) > width {
				flush()
			} else {
				line.WriteByte(' ')
				lineWidth++
			}
		}
		for _, r := range word {
			rw := runewidth.RuneWidth(r)
			if lineWidth > 0 && lineWidth+rw > width {
				flush()
			}
			line.WriteRune(r)
			lineWidth += rw
		}
	}
	if lineWidth > 0 {
		flush()
	}
	return lines
}
