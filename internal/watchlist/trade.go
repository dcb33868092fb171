// Package watchlist loads watchlist trades, the rows shown and filtered by
// watchfilter.
package watchlist

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Trade is one watchlist item.
type Trade struct {
	Watchlist string  `csv:"watchlist" yaml:"watchlist"`
	Ticker    string  `csv:"ticker" yaml:"ticker"`
	Quantity  int     `csv:"quantity" yaml:"quantity"`
	Price     float64 `csv:"price" yaml:"price"`
	Sector    string  `csv:"sector" yaml:"sector"`
	TradeDate Date    `csv:"trade_date" yaml:"trade_date"`
	Comments  string  `csv:"comments,omitempty" yaml:"comments,omitempty"`
}

// Columns returns the table headers, in the order Formatter.Cells fills them.
func Columns() []string {
	return []string{"Watchlist", "Ticker", "Quantity", "Price", "Sector", "Trade Date", "Comments"}
}

// Formatter renders trades as table cells using locale-aware number
// formatting.
type Formatter struct {
	p *message.Printer
}

// NewFormatter returns a Formatter for tag.
func NewFormatter(tag language.Tag) Formatter {
	return Formatter{p: message.NewPrinter(tag)}
}

func (f Formatter) printer() *message.Printer {
	if f.p == nil {
		return message.NewPrinter(language.English)
	}
	return f.p
}

// Cells renders t in Columns order. The zero Formatter uses English.
func (f Formatter) Cells(t Trade) []string {
	p := f.printer()
	return []string{
		t.Watchlist,
		t.Ticker,
		p.Sprintf("%d", t.Quantity),
		p.Sprintf("%.2f", t.Price),
		t.Sector,
		t.TradeDate.String(),
		t.Comments,
	}
}

// Text is the searchable text of t: its cells joined by spaces.
func (f Formatter) Text(t Trade) string {
	return strings.Join(f.Cells(t), " ")
}

// OnlyWatchlist keeps trades belonging to the named watchlist, compared
// case-insensitively. An empty name keeps everything.
func OnlyWatchlist(trades []Trade, name string) []Trade {
	name = strings.TrimSpace(name)
	if name == "" {
		return trades
	}
	var kept []Trade
	for _, t := range trades {
		if strings.EqualFold(t.Watchlist, name) {
			kept = append(kept, t)
		}
	}
	return kept
}
