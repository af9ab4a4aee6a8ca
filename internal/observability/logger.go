package observability

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger writes JSON to stdout. Debug records are kept in dev only,
// and LOG_LEVEL overrides the env default.
func NewLogger(env, levelName string) *slog.Logger {
	return newLogger(os.Stdout, env, levelName)
}

func newLogger(w io.Writer, env, levelName string) *slog.Logger {
	level := slog.LevelInfo

	if env == "dev" {
		level = slog.LevelDebug
	}

	if levelName != "" {
		// unknown names keep the env default
		_ = level.UnmarshalText([]byte(levelName))
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(NewContextHandler(handler))
}
