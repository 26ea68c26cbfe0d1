package utils

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// CollapseWhitespace trims s and replaces every whitespace run with a single space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TruncateRunes cuts s to at most maxRunes runes. A non-positive limit disables truncation.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return s
	}

	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}

	return string(runes[:maxRunes])
}

// TruncateWidth cuts s so its terminal display width fits maxWidth, appending "...".
func TruncateWidth(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}

	return runewidth.Truncate(s, maxWidth, "...")
}
