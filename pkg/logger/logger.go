package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
)

// Config controls the process-wide logger. Format is "json" or "text".
// File, when set, tees output into a daily-rotated log file next to stdout.
type Config struct {
	Level  string
	Format string
	File   string
}

var defaultLogger *slog.Logger

func Init(cfg Config) {
	out := io.Writer(os.Stdout)

	if cfg.File != "" {
		fw, err := rotatelogs.New(
			cfg.File+".%Y%m%d",
			rotatelogs.WithLinkName(cfg.File),
			rotatelogs.WithRotationTime(24*time.Hour),
			rotatelogs.WithMaxAge(7*24*time.Hour),
		)
		if err == nil {
			out = io.MultiWriter(os.Stdout, fw)
		}
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// LoggerWrapper returns the shared logger, lazily initializing a
// development configuration to avoid nil pointer panics.
func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		Init(Config{Level: "debug", Format: "text"})
	}
	return defaultLogger
}

func parseLevel(level string) slog.Level {
	switch level {
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
