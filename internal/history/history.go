// Package history keeps the queries a user has committed in the table view.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry is one committed query.
type Entry struct {
	Query string    `json:"query"`
	At    time.Time `json:"at"`
}

// Store is an append-only JSONL file of entries, oldest first.
type Store struct {
	path       string
	maxEntries int
	now        func() time.Time
}

// NewStore creates a Store at path. When maxEntries is positive the file is
// trimmed to the newest maxEntries entries as it grows.
func NewStore(path string, maxEntries int) *Store {
	return &Store{path: path, maxEntries: maxEntries, now: time.Now}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Append records query. Blank queries and repeats of the newest entry are
// skipped. It reports whether an entry was written.
func (s *Store) Append(query string) (bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return false, nil
	}

	entries, err := s.Load()
	if err != nil {
		return false, err
	}
	if n := len(entries); n > 0 && entries[n-1].Query == query {
		return false, nil
	}

	entry := Entry{Query: query, At: s.now()}
	if s.maxEntries > 0 && len(entries)+1 > s.maxEntries {
		entries = append(entries, entry)
		return true, s.rewrite(entries[len(entries)-s.maxEntries:])
	}
	return true, appendEntry(s.path, entry)
}

// Load reads all entries. A missing file yields no entries.
func (s *Store) Load() ([]Entry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("decoding history entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, scanner.Err()
}

// Queries returns the query strings, oldest first.
func (s *Store) Queries() ([]string, error) {
	entries, err := s.Load()
	if err != nil {
		return nil, err
	}
	queries := make([]string, len(entries))
	for i, e := range entries {
		queries[i] = e.Query
	}
	return queries, nil
}

// Recent returns up to n of the newest queries, newest first.
func (s *Store) Recent(n int) ([]string, error) {
	queries, err := s.Queries()
	if err != nil {
		return nil, err
	}
	var out []string
	for i := len(queries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, queries[i])
	}
	return out, nil
}

// Clear removes the history file.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

func appendEntry(path string, e Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling history entry: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing history entry: %w", err)
	}

	return nil
}

// rewrite replaces the file atomically with entries.
func (s *Store) rewrite(entries []Entry) error {
	var b strings.Builder
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshaling history entry: %w", err)
		}
		b.Write(data)
		b.WriteByte('\n')
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing history: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing history: %w", err)
	}
	return nil
}
