package privacylog

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger returns a sanitizing JSON logger. Unknown levels fall back to info.
func NewLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(WrapHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})))
}
