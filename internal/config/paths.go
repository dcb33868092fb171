package config

import (
	"os"
	"path/filepath"
)

// Dir returns the configuration directory path (~/.config/watchfilter).
// It can be overridden with the WATCHFILTER_CONFIG_DIR environment variable.
func Dir() string {
	if d := os.Getenv("WATCHFILTER_CONFIG_DIR"); d != "" {
		return d
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "watchfilter")
	}
	return filepath.Join(home, ".config", "watchfilter")
}

// ConfigFile returns the path to the config.yaml file.
func ConfigFile() string {
	return filepath.Join(Dir(), "config.yaml")
}

// HistoryFile returns the path to the query history.
func HistoryFile() string {
	return filepath.Join(Dir(), "history.jsonl")
}

// LogFile resolves the configured log file against Dir().
func (c Config) LogFile() string {
	name := c.Log.File
	if name == "" {
		name = "watchfilter.log"
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(Dir(), name)
}
