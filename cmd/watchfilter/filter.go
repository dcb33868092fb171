package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/stefanclaw/watchfilter/internal/config"
	"github.com/stefanclaw/watchfilter/internal/log"
	"github.com/stefanclaw/watchfilter/internal/rowfilter"
	"github.com/stefanclaw/watchfilter/internal/watchlist"
)

// maxLineSize bounds a single stdin row.
const maxLineSize = 1 << 20

type filterOptions struct {
	invert    bool
	count     bool
	highlight bool
}

func newFilterCommand(global *globalOptions, stdin io.Reader, stdout io.Writer) *cobra.Command {
	opts := &filterOptions{}

	cmd := &cobra.Command{
		Use:   "filter [query...]",
		Short: "Filter rows non-interactively",
		Long: `Print the rows matching query. Rows come from --source when given,
otherwise every line of stdin is a row.`,
		Example: `  watchfilter filter --source trades.csv tech apple
  ps aux | watchfilter filter root sshd
  watchfilter filter --count --invert energy < rows.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return err
			}
			level := "warn"
			if global.logLevel != "" {
				level = global.logLevel
			}
			if err := log.InitConsole(level); err != nil {
				return err
			}

			rows, err := pipeRows(cmd.Context(), global.source, cfg, stdin)
			if err != nil {
				return err
			}
			return runFilter(stdout, strings.Join(args, " "), rows, rowfilter.New(cfg.Engine()), opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.invert, "invert", "v", false, "Print the rows the query hides")
	cmd.Flags().BoolVarP(&opts.count, "count", "c", false, "Print only the number of rows")
	cmd.Flags().BoolVar(&opts.highlight, "highlight", false, "Emphasize the matched words")
	return cmd
}

// pipeRows loads rows from source, or reads one row per stdin line when no
// source was given on the command line.
func pipeRows(ctx context.Context, source string, cfg config.Config, stdin io.Reader) ([]string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if source == "" {
		return readLines(stdin)
	}

	src, err := watchlist.Open(source)
	if err != nil {
		return nil, err
	}
	trades, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	trades = watchlist.OnlyWatchlist(trades, cfg.Source.Watchlist)

	f := watchlist.NewFormatter(cfg.Tag())
	rows := make([]string, len(trades))
	for i, t := range trades {
		rows[i] = f.Text(t)
	}
	log.Debugf("loaded %d rows from %s", len(rows), src.Path())
	return rows, nil
}

func readLines(r io.Reader) ([]string, error) {
	var rows []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		rows = append(rows, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return rows, nil
}

// runFilter applies query to rows and writes the selected rows, or their
// count, to w.
func runFilter(w io.Writer, query string, rows []string, f rowfilter.Filter, opts *filterOptions) error {
	visible := f.Decide(query, rows)
	shown := rowfilter.CountVisible(visible)
	log.Debugf("query %q: %d/%d rows visible", query, shown, len(rows))

	if opts.count {
		n := shown
		if opts.invert {
			n = len(rows) - shown
		}
		_, err := fmt.Fprintln(w, n)
		return err
	}

	q := rowfilter.ParseQuery(query)
	mark := newMarker(w)
	bw := bufio.NewWriter(w)
	for i, line := range rows {
		if visible[i] == opts.invert {
			continue
		}
		if opts.highlight && !opts.invert {
			line = mark(line, q)
		}
		if _, err := fmt.Fprintln(bw, line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// newMarker returns a function emphasizing the matched words of a row. On a
// terminal matches are styled; otherwise they are wrapped in brackets.
func newMarker(w io.Writer) func(string, rowfilter.Query) string {
	renderer := lipgloss.NewRenderer(w)
	if renderer.ColorProfile() == termenv.Ascii {
		return func(text string, q rowfilter.Query) string {
			return rowfilter.Mark(text, q, "[", "]")
		}
	}

	style := renderer.NewStyle().Bold(true).Reverse(true)
	return func(text string, q rowfilter.Query) string {
		norm := rowfilter.Normalize(text)
		var b strings.Builder
		prev := 0
		for _, s := range rowfilter.Highlight(text, q) {
			b.WriteString(norm[prev:s.Start])
			b.WriteString(style.Render(norm[s.Start:s.End]))
			prev = s.End
		}
		b.WriteString(norm[prev:])
		return b.String()
	}
}
