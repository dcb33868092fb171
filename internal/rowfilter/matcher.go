package rowfilter

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/stefanclaw/watchfilter/internal/log"
)

// Engine selects how term matching is carried out. Both engines implement the
// same whole-word semantics.
type Engine string

const (
	// EngineScan searches for each term directly and checks the runes around
	// every occurrence.
	EngineScan Engine = "scan"
	// EngineRegexp compiles one escaped, boundary-anchored pattern per term.
	EngineRegexp Engine = "regexp"
)

// DefaultEngine is used when no engine is configured.
const DefaultEngine = EngineScan

// Engines lists the supported engines.
func Engines() []Engine {
	return []Engine{EngineScan, EngineRegexp}
}

// ParseEngine converts a config or flag value into an Engine. The empty string
// selects DefaultEngine.
func ParseEngine(s string) (Engine, error) {
	switch Engine(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultEngine, nil
	case EngineScan:
		return EngineScan, nil
	case EngineRegexp:
		return EngineRegexp, nil
	}
	return "", fmt.Errorf("unknown filter engine %q (want scan or regexp)", s)
}

// Matcher reports whether a row's text satisfies a query.
type Matcher interface {
	Match(text string) bool
}

// Compile builds a Matcher for q. It never fails: a query with no terms
// matches everything, and a regexp build failure falls back to the scan
// engine.
func Compile(q Query, engine Engine) Matcher {
	if q.Empty() {
		return matchAll{}
	}
	terms := make([]string, 0, len(q.Terms))
	for _, t := range q.Terms {
		terms = append(terms, prepare(t))
	}

	if engine == EngineRegexp {
		m, err := compileRegexp(terms)
		if err == nil {
			return m
		}
		log.Warnf("rowfilter: regexp engine failed for %q, using scan: %v", q.String(), err)
	}
	return scanMatcher{terms: terms}
}

type matchAll struct{}

func (matchAll) Match(string) bool { return true }

type scanMatcher struct {
	terms []string
}

func (m scanMatcher) Match(text string) bool {
	s := prepare(text)
	for _, term := range m.terms {
		if !containsWord(s, term) {
			return false
		}
	}
	return true
}

// containsWord reports whether term occurs in s with a word boundary on each
// edge of term that is itself a word rune.
func containsWord(s, term string) bool {
	return indexWord(s, term, 0) >= 0
}

// indexWord returns the byte offset of the first boundary-respecting
// occurrence of term in s at or after from, or -1.
func indexWord(s, term string, from int) int {
	if term == "" {
		return -1
	}
	first, _ := utf8.DecodeRuneInString(term)
	last, _ := utf8.DecodeLastRuneInString(term)
	needStart := IsWordRune(first)
	needEnd := IsWordRune(last)

	for i := from; i <= len(s); {
		j := strings.Index(s[i:], term)
		if j < 0 {
			return -1
		}
		start := i + j
		end := start + len(term)
		if (!needStart || !wordBefore(s, start)) && (!needEnd || !wordAfter(s, end)) {
			return start
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		i = start + size
	}
	return -1
}

func wordBefore(s string, i int) bool {
	if i == 0 {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return IsWordRune(r)
}

func wordAfter(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return IsWordRune(r)
}

// wordClass mirrors IsWordRune. RE2's \b only knows ASCII word characters, so
// boundaries are spelled out as "start of text or a non-word rune".
const wordClass = `\p{L}\p{N}\p{M}_`

type regexpMatcher struct {
	patterns []*regexp.Regexp
}

func compileRegexp(terms []string) (Matcher, error) {
	patterns := make([]*regexp.Regexp, 0, len(terms))
	for _, term := range terms {
		re, err := regexp.Compile(termPattern(term))
		if err != nil {
			return nil, fmt.Errorf("compiling term %q: %w", term, err)
		}
		patterns = append(patterns, re)
	}
	return regexpMatcher{patterns: patterns}, nil
}

func termPattern(term string) string {
	first, _ := utf8.DecodeRuneInString(term)
	last, _ := utf8.DecodeLastRuneInString(term)

	var b strings.Builder
	if IsWordRune(first) {
		b.WriteString(`(?:^|[^` + wordClass + `])`)
	}
	b.WriteString(regexp.QuoteMeta(term))
	if IsWordRune(last) {
		b.WriteString(`(?:[^` + wordClass + `]|$)`)
	}
	return b.String()
}

func (m regexpMatcher) Match(text string) bool {
	s := prepare(text)
	for _, re := range m.patterns {
		if !re.MatchString(s) {
			return false
		}
	}
	return true
}
