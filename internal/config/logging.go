package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
)

// SetupLogger creates a dual-output logger: text to console, JSON to file.
// A nil console logs to the file only, which keeps interactive screens clean.
// Returns the logger and a cleanup function to close the file.
func SetupLogger(logFile string, level slog.Level, console io.Writer) (*slog.Logger, func() error) {
	var handlers []slog.Handler
	if console != nil {
		handlers = append(handlers, slog.NewTextHandler(console, &slog.HandlerOptions{Level: level}))
	}

	noop := func() error { return nil }

	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err == nil {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}))
			return slog.New(slogmulti.Fanout(handlers...)), file.Close
		}
		slog.Warn("failed to open log file", "error", err, "file", logFile)
	}

	if len(handlers) == 0 {
		// Nowhere to write; fall back to stderr
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), noop
	}
	return slog.New(slogmulti.Fanout(handlers...)), noop
}

// SetupLoggerWithWriters creates a logger with custom writers (for testing).
func SetupLoggerWithWriters(console, file io.Writer, level slog.Level) *slog.Logger {
	consoleHandler := slog.NewTextHandler(console, &slog.HandlerOptions{Level: level})
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(slogmulti.Fanout(consoleHandler, fileHandler))
}
