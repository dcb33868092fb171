package history

// Cursor steps through a list of queries the way a shell steps through its
// history: Prev moves towards older entries, Next back towards the draft the
// user was typing before they started browsing.
type Cursor struct {
	queries []string // oldest first
	pos     int      // len(queries) means "at the draft"
	draft   string
}

// NewCursor returns a Cursor positioned after the newest query.
func NewCursor(queries []string) *Cursor {
	return &Cursor{queries: queries, pos: len(queries)}
}

// Push adds query as the newest entry and resets the position, skipping a
// repeat of the newest entry.
func (c *Cursor) Push(query string) {
	if query != "" && (len(c.queries) == 0 || c.queries[len(c.queries)-1] != query) {
		c.queries = append(c.queries, query)
	}
	c.Reset()
}

// Reset moves the cursor back past the newest entry and forgets the draft.
func (c *Cursor) Reset() {
	c.pos = len(c.queries)
	c.draft = ""
}

// Prev returns the next older query. current is remembered as the draft when
// browsing starts. ok is false when there is nothing older.
func (c *Cursor) Prev(current string) (query string, ok bool) {
	if c.pos == 0 {
		return "", false
	}
	if c.pos == len(c.queries) {
		c.draft = current
	}
	c.pos--
	return c.queries[c.pos], true
}

// Next returns the next newer query, or the saved draft once the newest entry
// has been passed. ok is false when the cursor is already at the draft.
func (c *Cursor) Next() (query string, ok bool) {
	if c.pos >= len(c.queries) {
		return "", false
	}
	c.pos++
	if c.pos == len(c.queries) {
		return c.draft, true
	}
	return c.queries[c.pos], true
}

// Len returns the number of queries.
func (c *Cursor) Len() int {
	return len(c.queries)
}
