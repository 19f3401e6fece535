package logger

import (
	"log/slog"
	"os"
)

// New returns the root structured logger. Services and handlers receive it by
// injection; nothing in the domain packages touches the global default.
func New() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
