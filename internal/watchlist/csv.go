package watchlist

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jszwec/csvutil"
)

// CSVSource reads trades from a CSV file with a header row. Lines starting
// with '#' are ignored.
type CSVSource struct {
	path string
}

func (s *CSVSource) Path() string { return s.path }

func (s *CSVSource) Load(ctx context.Context) ([]Trade, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()

	return DecodeCSV(ctx, f)
}

// DecodeCSV decodes trades from r. Unknown columns are ignored and missing
// ones are left at their zero value.
func DecodeCSV(ctx context.Context, r io.Reader) ([]Trade, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	dec, err := csvutil.NewDecoder(cr)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	var trades []Trade
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var t Trade
		if err := dec.Decode(&t); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decoding csv record %d: %w", len(trades)+1, err)
		}
		trades = append(trades, t)
	}
	return trades, nil
}
