// Package textnorm turns raw document text into the canonical form the
// keyword scorer operates on.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and drops the combining marks, so "inflación"
// becomes "inflacion". NFC recomposition keeps any non-Latin base runes intact.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases the text, strips diacritics, replaces every rune that
// is neither ASCII alphanumeric nor whitespace with a space, and collapses
// whitespace runs to single spaces. It is total and idempotent: it never
// fails, and Normalize(Normalize(t)) == Normalize(t).
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	lowered := strings.ToLower(text)
	decomposed, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		// transform.String only fails on a short destination buffer, which
		// cannot happen here; fall back to the lowered input.
		decomposed = lowered
	}

	var sb strings.Builder
	sb.Grow(len(decomposed))
	lastSpace := true
	for _, r := range decomposed {
		switch {
		case ('a' <= r && r <= 'z') || ('0' <= r && r <= '9'):
			sb.WriteRune(r)
			lastSpace = false
		default:
			// Punctuation, symbols and leftover non-Latin runes all separate
			// words; runs collapse to one space.
			if !lastSpace {
				sb.WriteByte(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimRight(sb.String(), " ")
}

// WordCount reports the number of whitespace-delimited tokens in a normalized
// text.
func WordCount(normalized string) int {
	return len(strings.Fields(normalized))
}
