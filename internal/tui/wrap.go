// Package tui provides the Bubble Tea play interface.
package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// wrapText soft-wraps text at word boundaries so hint and found-word lines
// fit the content width. Words wider than the width are left unbroken.
func wrapText(text string, width int) string {
	if width <= 0 {
		return text
	}
	var out strings.Builder
	lineWidth := 0
	for _, word := range strings.Fields(text) {
		w := runewidth.StringWidth(word)
		switch {
		case lineWidth == 0:
			out.WriteString(word)
			lineWidth = w
		case lineWidth+1+w <= width:
			out.WriteByte(' ')
			out.WriteString(word)
			lineWidth += 1 + w
		default:
			out.WriteByte('\n')
			out.WriteString(word)
			lineWidth = w
		}
	}
	return out.String()
}

// clampWidth bounds the content width used for wrapped lines.
func clampWidth(total int) int {
	width := int(float64(total) * 0.70)
	if width < 20 {
		width = 20
	}
	return width
}
