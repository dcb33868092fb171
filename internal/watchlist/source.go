package watchlist

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned by Open for file extensions it cannot read.
var ErrUnsupportedFormat = errors.New("unsupported source format")

// Source loads the full set of trades from one file.
type Source interface {
	Load(ctx context.Context) ([]Trade, error)
	Path() string
}

// Open returns the Source for path, chosen by file extension.
func Open(path string) (Source, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("no source path configured")
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return &CSVSource{path: path}, nil
	case ".yaml", ".yml":
		return &YAMLSource{path: path}, nil
	case ".db", ".sqlite", ".sqlite3":
		return &SQLiteSource{path: path}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Formats lists the file extensions Open understands.
func Formats() []string {
	return []string{".csv", ".yaml", ".yml", ".db", ".sqlite", ".sqlite3"}
}
