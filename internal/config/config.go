package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stefanclaw/watchfilter/internal/rowfilter"
)

// Config holds the application configuration.
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Filter  FilterConfig  `yaml:"filter"`
	TUI     TUIConfig     `yaml:"tui"`
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
	Update  UpdateConfig  `yaml:"update"`
	Locale  string        `yaml:"locale"`
}

// SourceConfig describes where trade rows come from.
type SourceConfig struct {
	Path      string `yaml:"path"`
	Watchlist string `yaml:"watchlist"` // only show this watchlist; empty shows all
	Watch     bool   `yaml:"watch"`
	Debounce  string `yaml:"debounce"` // e.g., "250ms"
}

// FilterConfig holds row filter settings.
type FilterConfig struct {
	Engine string `yaml:"engine"` // "scan" or "regexp"
}

// TUIConfig holds TUI settings.
type TUIConfig struct {
	Theme    string `yaml:"theme"`
	ShowHelp bool   `yaml:"show_help"`
}

// HistoryConfig holds query history settings.
type HistoryConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxEntries int  `yaml:"max_entries"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // relative paths are resolved against Dir()
}

// UpdateConfig holds self-update settings.
type UpdateConfig struct {
	Check bool `yaml:"check"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		Source: SourceConfig{
			Watch:    true,
			Debounce: "250ms",
		},
		Filter: FilterConfig{
			Engine: string(rowfilter.DefaultEngine),
		},
		TUI: TUIConfig{
			Theme: "auto",
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 200,
		},
		Log: LogConfig{
			Level: "info",
			File:  "watchfilter.log",
		},
		Update: UpdateConfig{
			Check: true,
		},
		Locale: DetectLocale(),
	}
}

// Validate checks values that would otherwise fail later at runtime.
func (c Config) Validate() error {
	if _, err := rowfilter.ParseEngine(c.Filter.Engine); err != nil {
		return err
	}
	if _, err := c.DebounceDuration(); err != nil {
		return err
	}
	if c.History.MaxEntries < 0 {
		return fmt.Errorf("history.max_entries must not be negative, got %d", c.History.MaxEntries)
	}
	return nil
}

// DebounceDuration parses Source.Debounce. An empty value means no debounce.
func (c Config) DebounceDuration() (time.Duration, error) {
	if c.Source.Debounce == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Source.Debounce)
	if err != nil {
		return 0, fmt.Errorf("invalid source.debounce %q: %w", c.Source.Debounce, err)
	}
	return d, nil
}

// Engine returns the configured filter engine, falling back to the default
// for unknown values. Validate reports those.
func (c Config) Engine() rowfilter.Engine {
	e, err := rowfilter.ParseEngine(c.Filter.Engine)
	if err != nil {
		return rowfilter.DefaultEngine
	}
	return e
}

// Load reads the config from disk. If the file doesn't exist, returns defaults.
func Load() (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(ConfigFile())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Defaults(), fmt.Errorf("parsing %s: %w", ConfigFile(), err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(ConfigFile(), data, 0o644)
}

// IsFirstRun returns true if no config file has been written yet.
func IsFirstRun() bool {
	_, err := os.Stat(ConfigFile())
	return os.IsNotExist(err)
}
