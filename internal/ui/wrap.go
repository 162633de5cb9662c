package ui

import (
	"strings"

	"github.com/rivo/uniseg"
)

// wrap breaks text into lines no wider than width cells. Explicit
// newlines always break.
func wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	flush := func() {
		lines = append(lines, strings.TrimRight(line.String(), " "))
		line.Reset()
		lineWidth = 0
	}

	state := -1
	rest := text
	for len(rest) > 0 {
		var segment string
		var mustBreak bool
		segment, rest, mustBreak, state = uniseg.FirstLineSegmentInString(rest, state)

		trimmed := strings.TrimRight(segment, "\r\n")
		w := uniseg.StringWidth(strings.TrimRight(trimmed, " "))
		if lineWidth > 0 && lineWidth+w > width {
			flush()
		}
		for w > width {
			// A single word longer than the line: hard break it.
			head, tail := splitWidth(trimmed, width)
			line.WriteString(head)
			flush()
			trimmed = tail
			w = uniseg.StringWidth(strings.TrimRight(trimmed, " "))
		}
		line.WriteString(trimmed)
		lineWidth += uniseg.StringWidth(trimmed)
		if mustBreak && len(rest) > 0 {
			flush()
		}
	}
	if line.Len() > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// splitWidth splits s after at most width cells, keeping grapheme clusters
// intact.
func splitWidth(s string, width int) (string, string) {
	used := 0
	pos := 0
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if used+w > width && pos > 0 {
			break
		}
		used += w
		pos += len(cluster)
	}
	return s[:pos], s[pos:]
}
