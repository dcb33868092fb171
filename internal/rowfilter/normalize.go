package rowfilter

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Normalize collapses every run of whitespace in text to a single space.
// Invalid UTF-8 bytes are replaced with utf8.RuneError.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// Fold applies full Unicode case folding so that comparisons ignore case.
func Fold(text string) string {
	return cases.Fold().String(text)
}

// IsWordRune reports whether r counts as part of a word: a letter, a number,
// a combining mark or an underscore.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

// prepare turns row or term text into the form matchers compare against.
func prepare(text string) string {
	return Fold(Normalize(text))
}
