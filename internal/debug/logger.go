// Package debug provides opt-in debug logging over log/slog. Logging is
// disabled until Init(true) is called; the zero state discards everything,
// so library code can log unconditionally.
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// discardHandler discards all records; slog.DiscardHandler requires Go 1.24.
var discardHandler = slog.NewTextHandler(io.Discard, nil)

var (
	mu      sync.RWMutex
	enabled bool
	logger  = slog.New(discardHandler)
)

// Init switches debug logging on or off. When enabled, records are written
// to stderr as text at debug level.
func Init(enable bool) {
	mu.Lock()
	defer mu.Unlock()

	enabled = enable
	if enable {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		logger = slog.New(discardHandler)
	}
}

// Enabled reports whether debug logging is on.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs a debug message.
func Debug(msg string, args ...any) { current().Debug(msg, args...) }

// Info logs an info message.
func Info(msg string, args ...any) { current().Info(msg, args...) }

// Warn logs a warning message.
func Warn(msg string, args ...any) { current().Warn(msg, args...) }

// Error logs an error message.
func Error(msg string, args ...any) { current().Error(msg, args...) }

// Logger returns the current slog.Logger.
func Logger() *slog.Logger { return current() }
