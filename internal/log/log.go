// Package log is a thin wrapper around a process-wide zerolog logger.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stderr, zerolog.WarnLevel)
)

func newLogger(w io.Writer, level zerolog.Level) *zerolog.Logger {
	l := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &l
}

// GetLogger returns the current logger.
func GetLogger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetLogger replaces the current logger.
func SetLogger(l *zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// ParseLevel maps a config value such as "debug" or "warn" to a zerolog level.
// The empty string means info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// InitWriter points the logger at w with the given level.
func InitWriter(w io.Writer, level string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	SetLogger(newLogger(w, lvl))
	return nil
}

// InitConsole logs human-readable lines to stderr.
func InitConsole(level string) error {
	return InitWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, level)
}

// InitFile appends JSON log lines to path, creating parent directories as
// needed. The caller closes the returned file on exit.
func InitFile(path, level string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	if err := InitWriter(f, level); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func Debugf(format string, a ...interface{}) {
	GetLogger().Debug().Msgf(format, a...)
}

func Infof(format string, a ...interface{}) {
	GetLogger().Info().Msgf(format, a...)
}

func Warnf(format string, a ...interface{}) {
	GetLogger().Warn().Msgf(format, a...)
}

func Errorf(format string, a ...interface{}) {
	GetLogger().Error().Msgf(format, a...)
}
