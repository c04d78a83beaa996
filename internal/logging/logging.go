// Package logging builds the zerolog logger. The dashboard owns the terminal, so logs go to a
// file unless a command runs with --verbose.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"botnology/internal/store"

	"github.com/rs/zerolog"
)

const DefaultFileName = "botnology.log"

func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewWithConfig writes JSON lines to w, or human-readable lines when pretty is set.
func NewWithConfig(w io.Writer, level string, pretty, noColor bool) zerolog.Logger {
	out := w
	if pretty {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    noColor,
		}
	}
	return zerolog.New(out).With().Timestamp().Logger().Level(ParseLevel(level))
}

// Options selects the sink.
type Options struct {
	Level string
	// File is the log file; empty means botnology.log in the config dir.
	File    string
	Verbose bool
}

// Open returns the process logger and a closer for its sink. Verbose runs log to stderr with
// the console writer at debug level. If the log file cannot be opened, logging is disabled
// rather than failing the command.
func Open(opts Options) (zerolog.Logger, io.Closer) {
	if opts.Verbose {
		noColor := strings.TrimSpace(os.Getenv("NO_COLOR")) != ""
		return NewWithConfig(os.Stderr, "debug", true, noColor), nopCloser{}
	}
	path := strings.TrimSpace(opts.File)
	if path == "" {
		dir, err := store.ConfigDir()
		if err != nil {
			return zerolog.Nop(), nopCloser{}
		}
		path = filepath.Join(dir, DefaultFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nopCloser{}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nopCloser{}
	}
	return NewWithConfig(f, opts.Level, false, true), f
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
