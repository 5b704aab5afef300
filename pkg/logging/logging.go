// Package logging builds the process slog.Logger from configuration.
// Console output always goes to stderr; when a file is configured, records
// are also written to a size-rotated file.
package logging

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a logger and a closer for the rotating file, if any.
// The closer is safe to call when no file is configured.
func New(cfg *Config) (*slog.Logger, io.Closer) {
	level, _ := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: slog.Level(level)}

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		out = io.MultiWriter(os.Stderr, rotator)
		closer = rotator
	}

	return slog.New(newHandler(cfg.Format, out, opts)), closer
}

func newHandler(format string, w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
