package telemetry

import (
	"log/slog"
	"os"
	"strings"
)

// SetupLogger installs the process-wide slog default from the portal's
// logging config (logging.format / logging.level, LG_LOGGING_*).
//
// format "json" selects the JSON handler for production ingestion; anything
// else falls back to the text handler for local runs. level accepts debug,
// info, warn/warning, and error (case-insensitive), defaulting to info.
// Records go to stderr: stdout belongs to the CLI subcommands (version,
// migrate) whose output gets piped.
//
// Handlers and middleware log through the slog package-level functions, so no
// *slog.Logger is threaded through the call graph.
func SetupLogger(format, level string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug, // file:line only when debugging
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
	slog.Info("logger initialised", "format", format, "level", lvl.String())
}
