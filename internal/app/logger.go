package app

import (
	"io"
	"log/slog"
)

// newLogger creates a slog.Logger writing to logW. It does not set the
// global logger, so every App keeps an isolated logger. Unknown levels fall
// back to info; any format other than "json" means text.
func newLogger(levelStr, formatStr string, logW io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(logW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(logW, handlerOpts)
	}

	return slog.New(handler).With("app", "imfitgo")
}
