// Package hashid derives short operational identifiers from strings.
//
// The hash is the classic 31-multiplier polynomial over UTF-16 code units,
// wrapped to a signed 32-bit integer. It is not cryptographic and collisions
// are expected; identifiers are meant for log correlation only.
package hashid

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// Rolling32 returns the signed 32-bit polynomial hash of s.
func Rolling32(s string) int32 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(unit)
	}

	return h
}

// Base36 renders the magnitude of h in base 36.
func Base36(h int32) string {
	v := int64(h)
	if v < 0 {
		v = -v
	}

	return strconv.FormatInt(v, 36)
}

// FromParts hashes the concatenation of parts and returns its base-36 form.
func FromParts(parts ...string) string {
	return Base36(Rolling32(strings.Join(parts, "")))
}
