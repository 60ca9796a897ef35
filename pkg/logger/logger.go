// Package logger configures the structured slog logger used across menubar.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	// EnvVarLogLevel is the environment variable name for setting the log level.
	EnvVarLogLevel = "LOG_LEVEL"

	// EnvVarLogFormat selects "json" (default) or "text" output.
	EnvVarLogFormat = "LOG_FORMAT"
)

// Options controls how New builds a logger.
type Options struct {
	// Module and Version are attached to every record.
	Module  string
	Version string

	// Level is a level name such as "debug" or "warn". Unknown names mean info.
	Level string

	// Format is "json" or "text". Anything else means json.
	Format string

	// Output defaults to os.Stderr.
	Output io.Writer
}

// New creates a structured logger. Source locations are added at debug level only.
func New(opts Options) *slog.Logger {
	w := opts.Output
	if w == nil {
		w = os.Stderr
	}

	lev := ParseLogLevel(opts.Level)
	ho := &slog.HandlerOptions{
		Level:     lev,
		AddSource: lev <= slog.LevelDebug,
	}

	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "text") {
		h = slog.NewTextHandler(w, ho)
	} else {
		h = slog.NewJSONHandler(w, ho)
	}

	return slog.New(h).With("module", opts.Module, "version", opts.Version)
}

// SetDefault installs a logger for module and version as the slog default.
// An empty level falls back to LOG_LEVEL; the format always comes from LOG_FORMAT.
func SetDefault(module, version, level string) *slog.Logger {
	if level == "" {
		level = os.Getenv(EnvVarLogLevel)
	}

	l := New(Options{
		Module:  module,
		Version: version,
		Level:   level,
		Format:  os.Getenv(EnvVarLogFormat),
	})
	slog.SetDefault(l)

	return l
}

// ParseLogLevel converts a level name into a slog.Level. Unrecognized names map to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
