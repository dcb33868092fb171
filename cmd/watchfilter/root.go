package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stefanclaw/watchfilter/internal/config"
	"github.com/stefanclaw/watchfilter/internal/history"
	"github.com/stefanclaw/watchfilter/internal/log"
	"github.com/stefanclaw/watchfilter/internal/onboard"
	"github.com/stefanclaw/watchfilter/internal/rowfilter"
	"github.com/stefanclaw/watchfilter/internal/tui"
	"github.com/stefanclaw/watchfilter/internal/watchlist"
)

// globalOptions are the persistent flags shared by every command. Empty
// values leave the config file untouched.
type globalOptions struct {
	configDir string
	source    string
	watchlist string
	engine    string
	logLevel  string
}

// newRootCommand builds the command tree. The root command runs the TUI.
func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "watchfilter [query...]",
		Short: "Live whole-word filter for watchlist trades",
		Long: `watchfilter shows your watchlist trades in a table and narrows it as you
type. Every word of the filter must appear in a row as a whole word, in any
order, ignoring case.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.configDir != "" {
				return os.Setenv("WATCHFILTER_CONFIG_DIR", opts.configDir)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts, strings.Join(args, " "), stdin, stdout)
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	// Persistent flags are available to every sub-command.
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configDir, "config-dir", "", "Use this config directory instead of ~/.config/watchfilter")
	flags.StringVar(&opts.source, "source", "", "Trades file to show ("+strings.Join(watchlist.Formats(), ", ")+")")
	flags.StringVar(&opts.watchlist, "watchlist", "", "Only show trades from this watchlist")
	flags.StringVar(&opts.engine, "engine", "", "Filter engine: scan or regexp")
	flags.StringVar(&opts.logLevel, "log-level", "", "Set the log level (debug, info, warn, error)")

	cmd.AddCommand(
		newFilterCommand(opts, stdin, stdout),
		newInitCommand(opts, stdin, stdout),
		newUpdateCommand(stdout),
		newVersionCommand(stdout),
		newHistoryCommand(stdout),
		newUninstallCommand(stdin, stdout),
	)
	return cmd
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(opts *globalOptions) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	if opts.source != "" {
		cfg.Source.Path = opts.source
	}
	if opts.watchlist != "" {
		cfg.Source.Watchlist = opts.watchlist
	}
	if opts.engine != "" {
		cfg.Filter.Engine = opts.engine
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runTUI(opts *globalOptions, query string, stdin io.Reader, stdout io.Writer) error {
	// First run without an explicit source: onboarding
	if config.IsFirstRun() && opts.source == "" {
		runner := onboard.NewRunner(stdin, stdout)
		if _, err := runner.Run(); err != nil {
			return err
		}
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := log.InitFile(cfg.LogFile(), cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	src, err := watchlist.Open(cfg.Source.Path)
	if err != nil {
		return fmt.Errorf("opening source: %w (run `watchfilter init` to choose another)", err)
	}

	debounce, err := cfg.DebounceDuration()
	if err != nil {
		return err
	}

	var store *history.Store
	if cfg.History.Enabled {
		store = history.NewStore(config.HistoryFile(), cfg.History.MaxEntries)
	}

	log.Infof("starting watchfilter %s on %s (engine %s)", version, src.Path(), cfg.Engine())

	return startTUI(tui.Options{
		Source:      src,
		Watchlist:   cfg.Source.Watchlist,
		Filter:      rowfilter.New(cfg.Engine()),
		Formatter:   watchlist.NewFormatter(cfg.Tag()),
		History:     store,
		Query:       query,
		Watch:       cfg.Source.Watch,
		Debounce:    debounce,
		Theme:       cfg.TUI.Theme,
		ShowHelp:    cfg.TUI.ShowHelp,
		Version:     version,
		CheckUpdate: cfg.Update.Check,
	})
}

// startTUI runs the table view until the user quits.
var startTUI = func(opts tui.Options) error {
	p := tea.NewProgram(tui.New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
