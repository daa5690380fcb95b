// Package diff bounds and summarizes unified patch text.
package diff

import "strings"

// TruncationMarker replaces the dropped middle of an oversized diff.
const TruncationMarker = "... [diff truncated due to size] ..."

const (
	headLines = 10
	tailLines = 10
)

// Filter bounds diff text to maxLines. Text at or under the budget is
// returned unchanged. Longer text keeps the first 10 lines, one marker
// line, and the last 10 lines when there are more than 20 lines in total.
func Filter(text string, maxLines int) string {
	lines := Lines(text)
	if len(lines) <= maxLines {
		return text
	}

	head := min(headLines, len(lines))
	out := make([]string, 0, head+1+tailLines)
	out = append(out, lines[:head]...)
	out = append(out, TruncationMarker)

	if len(lines) > headLines+tailLines {
		out = append(out, lines[len(lines)-tailLines:]...)
	}

	return strings.Join(out, "\n")
}

// Lines splits text on line feeds. A trailing newline does not produce an
// empty final line and a carriage return before the feed is dropped.
func Lines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
