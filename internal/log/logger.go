// Package log wraps log/slog with the field and component conventions
// used across the service.
package log

import (
	"log/slog"
	"os"
)

// Setup initializes the default structured logger. Level comes from
// LOG_LEVEL (debug|info|warn|error), defaulting to info.
func Setup() *slog.Logger {
	level := slog.LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// ForComponent returns a logger pre-tagged with a component name.
func ForComponent(component string) *slog.Logger {
	return slog.Default().With(FieldComponent, component)
}
