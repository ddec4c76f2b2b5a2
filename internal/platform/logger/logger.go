package logger

import (
	"log/slog"
	"os"
)

// New returns a structured JSON logger writing to stdout. Handlers and
// middleware receive this logger; nothing in the engine logs through the
// global default.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
