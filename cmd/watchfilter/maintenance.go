package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stefanclaw/watchfilter/internal/config"
	"github.com/stefanclaw/watchfilter/internal/history"
	"github.com/stefanclaw/watchfilter/internal/onboard"
	"github.com/stefanclaw/watchfilter/internal/update"
)

func newInitCommand(global *globalOptions, stdin io.Reader, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Choose the trades file and filter settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := onboard.NewRunner(stdin, stdout)
			runner.SourcePath = global.source
			_, err := runner.Run()
			return err
		},
	}
}

func newUpdateCommand(stdout io.Writer) *cobra.Command {
	var checkOnly bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update watchfilter to the latest release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !update.IsRelease(version) {
				fmt.Fprintln(stdout, "Auto-update is not available for development builds.")
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			fmt.Fprintln(stdout, "Checking for updates...")
			if checkOnly {
				res, err := update.Check(ctx, version)
				if err != nil {
					return fmt.Errorf("update check failed: %w", err)
				}
				if res.UpdateAvailable {
					fmt.Fprintf(stdout, "Update available: v%s → v%s.\n", res.CurrentVersion, res.LatestVersion)
				} else {
					fmt.Fprintln(stdout, "Already running the latest version.")
				}
				return nil
			}

			res, err := update.Apply(ctx, version)
			if err != nil {
				return fmt.Errorf("update failed: %w", err)
			}
			if res.Applied {
				fmt.Fprintf(stdout, "Updated to v%s. Restart watchfilter to use the new version.\n", res.LatestVersion)
			} else {
				fmt.Fprintln(stdout, "Already running the latest version.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&checkOnly, "check", false, "Only report whether an update is available")
	return cmd
}

func newVersionCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "watchfilter %s\n", version)
		},
	}
}

func newHistoryCommand(stdout io.Writer) *cobra.Command {
	var (
		limit int
		wipe  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or clear saved filter queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			store := history.NewStore(config.HistoryFile(), cfg.History.MaxEntries)

			if wipe {
				if err := store.Clear(); err != nil {
					return err
				}
				fmt.Fprintln(stdout, "History cleared.")
				return nil
			}

			queries, err := store.Recent(limit)
			if err != nil {
				return err
			}
			for _, q := range queries {
				fmt.Fprintln(stdout, q)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of queries to list, newest first")
	cmd.Flags().BoolVar(&wipe, "clear", false, "Delete all saved queries")
	return cmd
}

func newUninstallCommand(stdin io.Reader, stdout io.Writer) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the watchfilter config directory",
		Long: `Remove the config directory with its config file, query history and log.
Trade files referenced by the config are never touched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir := config.Dir()
			fmt.Fprintln(stdout, "This will remove all watchfilter data:")
			fmt.Fprintf(stdout, "  Config, history & log: %s\n", configDir)

			if !yes {
				fmt.Fprint(stdout, "Are you sure? (y/N) ")
				answer, _ := bufio.NewReader(stdin).ReadString('\n')
				answer = strings.TrimSpace(answer)
				if answer != "y" && answer != "Y" {
					fmt.Fprintln(stdout, "Cancelled.")
					return nil
				}
			}

			if err := os.RemoveAll(configDir); err != nil {
				return fmt.Errorf("removing %s: %w", configDir, err)
			}
			fmt.Fprintf(stdout, "Removed %s\n", configDir)

			if exe, err := os.Executable(); err == nil {
				fmt.Fprintf(stdout, "\nTo complete removal, delete the binary:\n  rm %s\n", exe)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
