// Package logging builds the leveled console logger shared by the CLI, the
// task store client and the TUI.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"todo/internal/config"
)

// Options holds configuration for the logger.
type Options struct {
	Level           log.Level
	ReportTimestamp bool
	Prefix          string
}

// DefaultOptions returns default options for console logging.
func DefaultOptions() Options {
	return Options{
		Level:           log.InfoLevel,
		ReportTimestamp: false,
		Prefix:          "todo",
	}
}

// New creates a text logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           opts.Level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: opts.ReportTimestamp,
		Prefix:          opts.Prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// ForConfig builds the logger for cfg on w with the given prefix.
// Interactive commands get Discard.
func ForConfig(w io.Writer, cfg *config.Config, prefix string) *log.Logger {
	if cfg.Interactive {
		return Discard()
	}
	opts := DefaultOptions()
	opts.Level = Level(cfg.LogLevel, cfg.Debug, cfg.Quiet)
	opts.Prefix = prefix
	return New(w, opts)
}

// Level resolves the effective level from the configured name and the
// --debug / --quiet flags. debug wins over quiet.
func Level(name string, debug, quiet bool) log.Level {
	switch {
	case debug:
		return log.DebugLevel
	case quiet:
		return log.ErrorLevel
	}
	return ParseLevel(name)
}

// ParseLevel parses a string log level. Unknown names default to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
