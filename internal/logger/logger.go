// Package logger provides the shared structured logger for the gateway.
package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Logger wraps slog.Logger so handlers depend on a single local type.
type Logger struct {
	*slog.Logger
}

// New creates a Logger backed by the given slog handler.
func New(handler slog.Handler) *Logger {
	return &Logger{Logger: slog.New(handler)}
}

// Production returns a JSON logger writing to stdout at info level.
func Production() *Logger {
	return New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Development returns a colorized human-readable logger for local runs.
func Development() *Logger {
	return New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	}))
}

// Nop returns a logger that discards all output, for tests.
func Nop() *Logger {
	return New(slog.NewTextHandler(io.Discard, nil))
}
