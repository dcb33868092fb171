package onboard

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stefanclaw/watchfilter/internal/config"
)

func setupTestEnv(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("WATCHFILTER_CONFIG_DIR", tmp)
	return tmp
}

func writeTrades(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "trades.csv")
	data := "watchlist,ticker,quantity,price,sector,trade_date\n" +
		"Tech,AAPL,15,175.00,Technology,2024-01-15\n" +
		"Energy,XOM,40,104.10,Energy,2024-03-11\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIsFirstRun_NoConfig(t *testing.T) {
	setupTestEnv(t)
	if !config.IsFirstRun() {
		t.Error("should be first run with no config")
	}
}

func TestRun_SavesConfig(t *testing.T) {
	setupTestEnv(t)
	path := writeTrades(t, t.TempDir())

	out := &bytes.Buffer{}
	r := &Runner{
		Stdin:  strings.NewReader(path + "\n2\nde-DE\n"),
		Stdout: out,
	}

	result, err := r.Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result.Trades != 2 {
		t.Errorf("trades = %d, want 2", result.Trades)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Source.Path != path {
		t.Errorf("source.path = %q, want %q", cfg.Source.Path, path)
	}
	if cfg.Filter.Engine != "regexp" {
		t.Errorf("filter.engine = %q, want regexp", cfg.Filter.Engine)
	}
	if cfg.Locale != "de-DE" {
		t.Errorf("locale = %q, want de-DE", cfg.Locale)
	}
	if config.IsFirstRun() {
		t.Error("config should exist after onboarding")
	}
	if !strings.Contains(out.String(), "Found 2 trade(s).") {
		t.Errorf("output missing trade count:\n%s", out.String())
	}
}

func TestRun_DefaultsFromRunner(t *testing.T) {
	setupTestEnv(t)
	path := writeTrades(t, t.TempDir())

	r := &Runner{
		Stdin:      strings.NewReader("\n\n\n"),
		Stdout:     &bytes.Buffer{},
		SourcePath: path,
	}

	result, err := r.Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result.Config.Filter.Engine != "scan" {
		t.Errorf("filter.engine = %q, want scan", result.Config.Filter.Engine)
	}
	if result.Config.Source.Path != path {
		t.Errorf("source.path = %q, want %q", result.Config.Source.Path, path)
	}
}

func TestRun_RetriesBadSource(t *testing.T) {
	setupTestEnv(t)
	dir := t.TempDir()
	path := writeTrades(t, dir)

	out := &bytes.Buffer{}
	r := &Runner{
		Stdin:  strings.NewReader(filepath.Join(dir, "missing.csv") + "\n" + path + "\nscan\nen\n"),
		Stdout: out,
	}

	if _, err := r.Run(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !strings.Contains(out.String(), "Could not read") {
		t.Errorf("output should report the unreadable source:\n%s", out.String())
	}
}

func TestRun_GivesUpAfterAttempts(t *testing.T) {
	setupTestEnv(t)

	r := &Runner{
		Stdin:  strings.NewReader("a.xlsx\nb.xlsx\nc.xlsx\n"),
		Stdout: &bytes.Buffer{},
	}

	if _, err := r.Run(); err == nil {
		t.Fatal("Run() error = nil, want failure")
	}
	if !config.IsFirstRun() {
		t.Error("config must not be written when onboarding fails")
	}
}

func TestRun_NoSource(t *testing.T) {
	setupTestEnv(t)

	r := &Runner{
		Stdin:  strings.NewReader(""),
		Stdout: &bytes.Buffer{},
	}

	if _, err := r.Run(); err == nil {
		t.Fatal("Run() error = nil, want no data source error")
	}
}

func TestRun_UnknownEngineFallsBack(t *testing.T) {
	setupTestEnv(t)
	path := writeTrades(t, t.TempDir())

	out := &bytes.Buffer{}
	r := &Runner{
		Stdin:  strings.NewReader(path + "\nfuzzy\n\n"),
		Stdout: out,
	}

	result, err := r.Run()
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if result.Config.Filter.Engine != "scan" {
		t.Errorf("filter.engine = %q, want scan", result.Config.Filter.Engine)
	}
}

func TestNewRunner(t *testing.T) {
	in := strings.NewReader("")
	out := &bytes.Buffer{}

	r := NewRunner(in, out)
	if r.Stdin != in || r.Stdout != out {
		t.Error("NewRunner should keep the given reader and writer")
	}

	r = NewRunner(nil, nil)
	if r.Stdin != os.Stdin || r.Stdout != os.Stdout {
		t.Error("NewRunner(nil, nil) should use os.Stdin and os.Stdout")
	}
}
