// Package logger provides the session-wide slog.Logger for cmd/mscheme,
// modeled on cmd/hiveexplorer/logger/logger.go: a package-level *slog.Logger
// that starts out silent and is configured once via Init before any other
// logging call.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// L is the global logger instance. It's initialized to discard all output by
// default. Call Init() to enable logging to stderr.
var L *slog.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Options configures the logger initialization.
type Options struct {
	Verbose bool // Raises the minimum level from Info to Debug
}

// Init configures logging. Call from main() before any log calls. Output
// goes to stderr — stdout is reserved for the interpreter's own write/
// newline output (§6) — at LevelInfo normally, or LevelDebug when
// opts.Verbose is set.
func Init(opts Options) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	L = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }
