package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Log is the process-wide logger. Packages use it directly instead of
// threading a logger through every constructor.
var Log *slog.Logger

func init() {
	// Safe defaults for tests and local runs; main overrides via Initialize.
	Initialize("info", false)
}

// Initialize configures Log and the slog default from the config values.
func Initialize(level string, useJSON bool) {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(level),
		AddSource: true,
	}

	var handler slog.Handler
	if useJSON {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
