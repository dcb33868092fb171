package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/mattn/go-runewidth"

	"github.com/stefanclaw/watchfilter/internal/rowfilter"
	"github.com/stefanclaw/watchfilter/internal/watchlist"
)

const (
	minColumnWidth = 4
	maxColumnWidth = 40
)

// tradeRow adapts a trade to rowfilter.Row. Cells and text are rendered once
// when rows are loaded; the filter only flips visible.
type tradeRow struct {
	cells   []string
	text    string
	visible bool
}

var _ rowfilter.Row = (*tradeRow)(nil)

func newTradeRows(trades []watchlist.Trade, f watchlist.Formatter) []*tradeRow {
	rows := make([]*tradeRow, len(trades))
	for i, t := range trades {
		cells := f.Cells(t)
		rows[i] = &tradeRow{
			cells:   cells,
			text:    f.Text(t),
			visible: true,
		}
	}
	return rows
}

func (r *tradeRow) Text() string { return r.text }

func (r *tradeRow) SetVisible(visible bool) { r.visible = visible }

func filterRows(rows []*tradeRow) []rowfilter.Row {
	out := make([]rowfilter.Row, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

// visibleTableRows returns the cells of the visible rows in order.
func visibleTableRows(rows []*tradeRow) []table.Row {
	var out []table.Row
	for _, r := range rows {
		if r.visible {
			out = append(out, table.Row(r.cells))
		}
	}
	return out
}

// columnWidths sizes each column to its widest cell across all rows, hidden
// ones included, so columns do not jump while the user types. The last
// column absorbs whatever space remains up to width.
func columnWidths(headers []string, rows []*tradeRow, width int) []table.Column {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = max(minColumnWidth, runewidth.StringWidth(h))
	}
	for _, r := range rows {
		for i, c := range r.cells {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(c))
			}
		}
	}

	used := 0
	for i := range widths {
		widths[i] = min(widths[i], maxColumnWidth)
		used += widths[i] + 2 // cell padding
	}
	if last := len(widths) - 1; last >= 0 && width > 0 {
		switch {
		case used < width:
			widths[last] += width - used
		case used > width:
			widths[last] = max(minColumnWidth, widths[last]-(used-width))
		}
	}

	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		cols[i] = table.Column{Title: h, Width: widths[i]}
	}
	return cols
}
