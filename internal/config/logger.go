package config

import (
    "io"
    "log/slog"
    "strings"
)

// NewLogger builds the process logger: JSON lines in production, text
// otherwise.  LOG_LEVEL accepts debug, info, warn or error.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
    opts := &slog.HandlerOptions{Level: parseLevel(envStr("LOG_LEVEL", "info"))}
    if c.IsProd() {
        return slog.New(slog.NewJSONHandler(w, opts))
    }
    return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
    switch strings.ToLower(strings.TrimSpace(s)) {
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
