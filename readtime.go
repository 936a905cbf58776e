package inkwell

import (
	"math"
	"strings"
)

// unitsPerMinute is the reading speed used for the estimate. CJK text counts
// one unit per character, everything else one unit per whitespace word.
const unitsPerMinute = 400

// EstimateReadTime returns the estimated reading time of content in whole
// minutes, never less than 1. It is computed once at post creation and again
// when content changes.
func EstimateReadTime(content string) int {
	normalized := strings.Join(strings.Fields(content), " ")
	if normalized == "" {
		return 1
	}

	cjk := 0
	var rest strings.Builder
	for _, r := range normalized {
		if isCJK(r) {
			cjk++
			rest.WriteByte(' ')
		} else {
			rest.WriteRune(r)
		}
	}
	words := len(strings.Fields(rest.String()))

	minutes := int(math.Ceil(float64(cjk+words) / unitsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// isCJK covers the Han, Hiragana/Katakana, and Hangul ranges the estimate
// treats as one reading unit per rune.
func isCJK(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF: // CJK Unified Ideographs
		return true
	case r >= 0x3400 && r <= 0x4DBF: // CJK Extension A
		return true
	case r >= 0x3040 && r <= 0x30FF: // Hiragana + Katakana
		return true
	case r >= 0xAC00 && r <= 0xD7AF: // Hangul Syllables
		return true
	}
	return false
}
