// Package rowfilter decides which table rows stay visible for a live text
// query. Every whitespace-separated term of the query must appear in a row as
// a whole word, in any order and regardless of case.
package rowfilter

import "strings"

// Query is a filter query split into terms.
type Query struct {
	Raw   string
	Terms []string
}

// ParseQuery trims raw and splits it on runs of whitespace. A blank query has
// no terms.
func ParseQuery(raw string) Query {
	return Query{
		Raw:   raw,
		Terms: strings.Fields(strings.TrimSpace(raw)),
	}
}

// Empty reports whether the query has no terms and therefore matches every row.
func (q Query) Empty() bool {
	return len(q.Terms) == 0
}

// String returns the terms joined by single spaces.
func (q Query) String() string {
	return strings.Join(q.Terms, " ")
}
