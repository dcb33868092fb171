package rowfilter

// Row is a table row the filter can show or hide. Text returns the row's
// current rendered text; the filter never changes it.
type Row interface {
	Text() string
	SetVisible(visible bool)
}

// Filter applies queries with a fixed engine. The zero value uses
// DefaultEngine.
type Filter struct {
	Engine Engine
}

// New returns a Filter using engine.
func New(engine Engine) Filter {
	return Filter{Engine: engine}
}

func (f Filter) engine() Engine {
	if f.Engine == "" {
		return DefaultEngine
	}
	return f.Engine
}

// Matcher compiles query with the filter's engine.
func (f Filter) Matcher(query string) Matcher {
	return Compile(ParseQuery(query), f.engine())
}

// Decide returns the visibility of each text for query without touching any
// row. The result has the same length and order as texts.
func (f Filter) Decide(query string, texts []string) []bool {
	m := f.Matcher(query)
	visible := make([]bool, len(texts))
	for i, text := range texts {
		visible[i] = m.Match(text)
	}
	return visible
}

// Apply re-evaluates every row against query and sets its visibility. It
// returns the number of rows left visible.
func (f Filter) Apply(query string, rows []Row) int {
	texts := make([]string, len(rows))
	for i, row := range rows {
		texts[i] = row.Text()
	}
	shown := 0
	for i, visible := range f.Decide(query, texts) {
		rows[i].SetVisible(visible)
		if visible {
			shown++
		}
	}
	return shown
}

// Decide is Filter.Decide with the default engine.
func Decide(query string, texts []string) []bool {
	return Filter{}.Decide(query, texts)
}

// Apply is Filter.Apply with the default engine.
func Apply(query string, rows []Row) int {
	return Filter{}.Apply(query, rows)
}

// CountVisible returns how many entries of visible are true.
func CountVisible(visible []bool) int {
	n := 0
	for _, v := range visible {
		if v {
			n++
		}
	}
	return n
}
