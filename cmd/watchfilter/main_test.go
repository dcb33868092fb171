package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanclaw/watchfilter/internal/history"
	"github.com/stefanclaw/watchfilter/internal/tui"
	"github.com/stefanclaw/watchfilter/internal/watchlist"
)

const pipeInput = "Apple Pie\nPineapple\napple sauce\nred car\nblue car\nred bicycle\n"

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("WATCHFILTER_CONFIG_DIR", t.TempDir())
	t.Setenv("LC_ALL", "en_US.UTF-8")

	out := &bytes.Buffer{}
	cmd := newRootCommand(strings.NewReader(stdin), out, &bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTradesCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trades.csv")
	data := "watchlist,ticker,quantity,price,sector,trade_date,comments\n" +
		"Tech,AAPL,15,175.00,Technology,2024-01-15,core holding\n" +
		"Tech,MSFT,10,410.25,Technology,2024-02-01,\n" +
		"Energy,XOM,40,104.10,Energy,2024-03-11,dividend (qtr)\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestFilterStdin(t *testing.T) {
	out, err := execute(t, pipeInput, "filter", "apple")
	require.NoError(t, err)
	assert.Equal(t, "Apple Pie\napple sauce\n", out)
}

func TestFilterAllTermsRequired(t *testing.T) {
	out, err := execute(t, pipeInput, "filter", "car", "red")
	require.NoError(t, err)
	assert.Equal(t, "red car\n", out)
}

func TestFilterEmptyQueryPrintsAll(t *testing.T) {
	out, err := execute(t, pipeInput, "filter")
	require.NoError(t, err)
	assert.Equal(t, pipeInput, out)
}

func TestFilterInvert(t *testing.T) {
	out, err := execute(t, pipeInput, "filter", "--invert", "car")
	require.NoError(t, err)
	assert.Equal(t, "Apple Pie\nPineapple\napple sauce\nred bicycle\n", out)
}

func TestFilterCount(t *testing.T) {
	out, err := execute(t, pipeInput, "filter", "-c", "red")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = execute(t, pipeInput, "filter", "-c", "-v", "red")
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)
}

func TestFilterHighlightWithoutTerminal(t *testing.T) {
	out, err := execute(t, pipeInput, "filter", "--highlight", "apple")
	require.NoError(t, err)
	assert.Equal(t, "[Apple] Pie\n[apple] sauce\n", out)
}

func TestFilterEnginesAgree(t *testing.T) {
	for _, q := range []string{"apple", "red car", "(x", "a.b", "PIE apple"} {
		scan, err := execute(t, pipeInput, "filter", "--engine", "scan", q)
		require.NoError(t, err)
		re, err := execute(t, pipeInput, "filter", "--engine", "regexp", q)
		require.NoError(t, err)
		assert.Equal(t, scan, re, "query %q", q)
	}
}

func TestFilterInvalidEngine(t *testing.T) {
	_, err := execute(t, pipeInput, "filter", "--engine", "fuzzy", "apple")
	assert.Error(t, err)
}

func TestFilterSource(t *testing.T) {
	path := writeTradesCSV(t)

	out, err := execute(t, "", "filter", "--source", path, "-c", "technology")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	out, err = execute(t, "", "filter", "--source", path, "qtr")
	require.NoError(t, err)
	assert.Equal(t, "Energy XOM 40 104.10 Energy 2024-03-11 dividend (qtr)\n", out)
}

func TestFilterSourceWatchlist(t *testing.T) {
	path := writeTradesCSV(t)

	out, err := execute(t, "", "filter", "--source", path, "--watchlist", "energy", "-c")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestFilterUnsupportedSource(t *testing.T) {
	_, err := execute(t, "", "filter", "--source", "trades.xlsx", "apple")
	require.Error(t, err)
	assert.ErrorIs(t, err, watchlist.ErrUnsupportedFormat)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "watchfilter dev\n", out)
}

func TestUpdateDevBuild(t *testing.T) {
	out, err := execute(t, "", "update")
	require.NoError(t, err)
	assert.Contains(t, out, "not available for development builds")
}

func TestInitCommand(t *testing.T) {
	path := writeTradesCSV(t)
	dir := t.TempDir()

	out, err := execute(t, "\n\n\n", "init", "--config-dir", dir, "--source", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Found 3 trade(s).")
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))
}

func TestUninstallCancelled(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "n\n", "uninstall", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")
	assert.DirExists(t, dir)
}

func TestUninstallConfirmed(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "watchfilter")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	out, err := execute(t, "", "uninstall", "--yes", "--config-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed "+dir)
	assert.NoDirExists(t, dir)
}

// stubTUI replaces the bubbletea program with a recorder of its options.
func stubTUI(t *testing.T) *[]tui.Options {
	t.Helper()
	var started []tui.Options
	orig := startTUI
	startTUI = func(opts tui.Options) error {
		started = append(started, opts)
		return nil
	}
	t.Cleanup(func() { startTUI = orig })
	return &started
}

func TestRootQueryArguments(t *testing.T) {
	started := stubTUI(t)
	path := writeTradesCSV(t)

	_, err := execute(t, "", "--source", path, "tech", "apple")
	require.NoError(t, err)
	require.Len(t, *started, 1)

	opts := (*started)[0]
	assert.Equal(t, "tech apple", opts.Query)
	require.NotNil(t, opts.Source)
	assert.Equal(t, path, opts.Source.Path())
}

func TestRootWithoutQuery(t *testing.T) {
	started := stubTUI(t)
	path := writeTradesCSV(t)

	_, err := execute(t, "", "--source", path, "--engine", "regexp")
	require.NoError(t, err)
	require.Len(t, *started, 1)
	assert.Empty(t, (*started)[0].Query)
	assert.Equal(t, "regexp", string((*started)[0].Filter.Engine))
}

func TestRootSubcommandStillRoutes(t *testing.T) {
	started := stubTUI(t)

	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "watchfilter dev\n", out)
	assert.Empty(t, *started)
}

func TestHistoryCommand(t *testing.T) {
	dir := t.TempDir()
	store := history.NewStore(filepath.Join(dir, "history.jsonl"), 0)
	for _, q := range []string{"tech", "energy", "apple pie"} {
		_, err := store.Append(q)
		require.NoError(t, err)
	}

	out, err := execute(t, "", "history", "--config-dir", dir, "-n", "2")
	require.NoError(t, err)
	assert.Equal(t, "apple pie\nenergy\n", out)

	out, err = execute(t, "", "history", "--config-dir", dir, "--clear")
	require.NoError(t, err)
	assert.Equal(t, "History cleared.\n", out)

	queries, err := store.Queries()
	require.NoError(t, err)
	assert.Empty(t, queries)
}
