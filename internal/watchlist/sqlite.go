package watchlist

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const tradesQuery = `
SELECT watchlist, ticker, quantity, price, sector, trade_date, comments
FROM watchlist_items
ORDER BY watchlist, trade_date, id`

// SQLiteSource reads trades from the watchlist_items table of a SQLite
// database.
type SQLiteSource struct {
	path string
}

func (s *SQLiteSource) Path() string { return s.path }

func (s *SQLiteSource) Load(ctx context.Context) ([]Trade, error) {
	// sql.Open would create an empty database for a missing file
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, tradesQuery)
	if err != nil {
		return nil, fmt.Errorf("querying watchlist items: %w", err)
	}
	defer rows.Close()

	var trades []Trade
	for rows.Next() {
		var (
			t        Trade
			comments sql.NullString
		)
		if err := rows.Scan(&t.Watchlist, &t.Ticker, &t.Quantity, &t.Price, &t.Sector, &t.TradeDate, &comments); err != nil {
			return nil, fmt.Errorf("scanning watchlist item: %w", err)
		}
		t.Comments = comments.String
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading watchlist items: %w", err)
	}
	return trades, nil
}
