package log

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/turbot/bqpipe/internal/constants"
	"github.com/turbot/bqpipe/internal/sanitize"
)

func BqpipeLogger() *slog.Logger {
	return BqpipeLoggerWithLevelAndWriter(getLogLevel(), os.Stderr)
}

func BqpipeLoggerWithLevelAndWriter(level slog.Leveler, w io.Writer) *slog.Logger {
	if level == constants.LogLevelOff {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	}

	handlerOptions := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			sanitized := sanitize.Instance.SanitizeKeyValue(a.Key, a.Value.Any())

			return slog.Attr{
				Key:   a.Key,
				Value: slog.AnyValue(sanitized),
			}
		},
	}

	return slog.New(slog.NewJSONHandler(w, handlerOptions))
}

func SetDefaultLogger() {
	logger := BqpipeLogger()
	slog.SetDefault(logger)
}

// SetDebugLogger switches the default logger to debug level, used by --debug.
func SetDebugLogger() {
	slog.SetDefault(BqpipeLoggerWithLevelAndWriter(slog.LevelDebug, os.Stderr))
}

func getLogLevel() slog.Leveler {
	levelEnv := os.Getenv(constants.EnvLogLevel)

	switch strings.ToLower(levelEnv) {
	case "trace":
		return constants.LogLevelTrace
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return constants.LogLevelOff
	}
}
