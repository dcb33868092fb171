package rowfilter

import (
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Span is a half-open byte range [Start, End) in a normalized row text.
type Span struct {
	Start int
	End   int
}

// Highlight returns the ranges of Normalize(text) covered by whole-word
// occurrences of q's terms, sorted and merged. It returns nil when q is empty
// or nothing matches.
func Highlight(text string, q Query) []Span {
	if q.Empty() {
		return nil
	}
	norm := Normalize(text)
	folded, offsets := foldWithOffsets(norm)

	var spans []Span
	for _, t := range q.Terms {
		term := prepare(t)
		for from := 0; from <= len(folded); {
			start := indexWord(folded, term, from)
			if start < 0 {
				break
			}
			end := start + len(term)
			spans = append(spans, Span{Start: offsets[start], End: offsets[end]})
			_, size := utf8.DecodeRuneInString(folded[start:])
			from = start + size
		}
	}
	return mergeSpans(spans)
}

// foldWithOffsets folds s one rune at a time and records, for every byte of
// the folded string (plus one past the end), the byte offset in s of the rune
// that produced it.
func foldWithOffsets(s string) (string, []int) {
	caser := cases.Fold()
	var b strings.Builder
	offsets := make([]int, 0, len(s)+1)
	for i, r := range s {
		f := caser.String(string(r))
		b.WriteString(f)
		for j := 0; j < len(f); j++ {
			offsets = append(offsets, i)
		}
	}
	offsets = append(offsets, len(s))
	return b.String(), offsets
}

func mergeSpans(spans []Span) []Span {
	if len(spans) == 0 {
		return nil
	}
	sort.Slice(spans, func(i, j int) bool {
		return spans[i].Start < spans[j].Start
	})
	merged := []Span{spans[0]}
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// Mark wraps every highlighted span of Normalize(text) with open and shut.
func Mark(text string, q Query, open, shut string) string {
	norm := Normalize(text)
	spans := Highlight(text, q)
	if len(spans) == 0 {
		return norm
	}
	var b strings.Builder
	prev := 0
	for _, s := range spans {
		b.WriteString(norm[prev:s.Start])
		b.WriteString(open)
		b.WriteString(norm[s.Start:s.End])
		b.WriteString(shut)
		prev = s.End
	}
	b.WriteString(norm[prev:])
	return b.String()
}
