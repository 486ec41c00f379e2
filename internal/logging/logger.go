// Package logging builds the application loggers used by the CLI and the
// diagnostics server.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates a configured application logger. It writes to stderr so
// stdout stays free for graph output, and standardizes the "error" key to
// "err".
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// FromVerbosity maps a -v count to a logger: 0 warns, 1 informs, 2 and up
// debugs.
func FromVerbosity(v int) *slog.Logger {
	switch {
	case v <= 0:
		return New(slog.LevelWarn)
	case v == 1:
		return New(slog.LevelInfo)
	default:
		return New(slog.LevelDebug)
	}
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
