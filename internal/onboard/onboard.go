package onboard

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stefanclaw/watchfilter/internal/config"
	"github.com/stefanclaw/watchfilter/internal/rowfilter"
	"github.com/stefanclaw/watchfilter/internal/watchlist"
)

// maxAttempts bounds how often the source prompt is repeated.
const maxAttempts = 3

// Result holds the outcome of the onboarding flow.
type Result struct {
	Config config.Config
	Trades int
}

// Runner encapsulates onboarding dependencies for testability.
type Runner struct {
	Stdin      io.Reader
	Stdout     io.Writer
	SourcePath string // offered as the default answer when set
}

// NewRunner creates a Runner reading answers from stdin. Nil arguments fall
// back to os.Stdin and os.Stdout.
func NewRunner(stdin io.Reader, stdout io.Writer) *Runner {
	if stdin == nil {
		stdin = os.Stdin
	}
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Runner{
		Stdin:  stdin,
		Stdout: stdout,
	}
}

// Run executes the first-run onboarding flow and saves the resulting config.
func (r *Runner) Run() (*Result, error) {
	w := r.Stdout
	scanner := bufio.NewScanner(r.Stdin)
	ask := func(prompt, def string) string {
		if def != "" {
			fmt.Fprintf(w, "  %s [%s]: ", prompt, def)
		} else {
			fmt.Fprintf(w, "  %s: ", prompt)
		}
		var answer string
		if scanner.Scan() {
			answer = strings.TrimSpace(scanner.Text())
		}
		if answer == "" {
			return def
		}
		return answer
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  Welcome to watchfilter!")
	fmt.Fprintln(w, "  A live filter for your watchlist trades.")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "  Supported sources: %s\n", strings.Join(watchlist.Formats(), ", "))
	fmt.Fprintln(w, "")

	// Step 1: Data source
	var (
		sourcePath string
		count      int
	)
	for attempt := 1; ; attempt++ {
		path := ask("Trades file", r.SourcePath)
		if path == "" {
			return nil, fmt.Errorf("no data source given")
		}
		n, err := probe(path)
		if err == nil {
			sourcePath, count = path, n
			break
		}
		fmt.Fprintf(w, "  Could not read %s: %v\n", path, err)
		if attempt == maxAttempts {
			return nil, fmt.Errorf("no readable data source after %d attempts: %w", maxAttempts, err)
		}
	}
	fmt.Fprintf(w, "  Found %d trade(s).\n", count)
	if abs, err := filepath.Abs(sourcePath); err == nil {
		sourcePath = abs
	}

	// Step 2: Filter engine
	fmt.Fprintln(w, "")
	engines := rowfilter.Engines()
	for i, e := range engines {
		marker := "  "
		if e == rowfilter.DefaultEngine {
			marker = "* "
		}
		fmt.Fprintf(w, "  %s%d) %s\n", marker, i+1, e)
	}
	engine := rowfilter.DefaultEngine
	choice := ask("Filter engine", string(rowfilter.DefaultEngine))
	for i, e := range engines {
		if choice == fmt.Sprintf("%d", i+1) {
			choice = string(e)
		}
	}
	if e, err := rowfilter.ParseEngine(choice); err == nil {
		engine = e
	} else {
		fmt.Fprintf(w, "  %v; using %s.\n", err, engine)
	}

	// Step 3: Number formatting locale
	fmt.Fprintln(w, "")
	locale := ask("Locale for numbers", config.DetectLocale())

	// Step 4: Save config
	cfg := config.Defaults()
	cfg.Source.Path = sourcePath
	cfg.Filter.Engine = string(engine)
	cfg.Locale = locale

	if err := config.Save(cfg); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "  Config: %s\n", config.ConfigFile())
	fmt.Fprintln(w, "  Setup complete!")

	return &Result{
		Config: cfg,
		Trades: count,
	}, nil
}

// probe opens and loads path to make sure it is usable.
func probe(path string) (int, error) {
	src, err := watchlist.Open(path)
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	trades, err := src.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(trades), nil
}
