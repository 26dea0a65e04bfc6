// Package logging configures the process-wide slog logger. Log output
// goes to stderr so piped report output stays clean.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup configures the global slog logger.
func Setup(level string) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
