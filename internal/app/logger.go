package app

import (
	"log/slog"
	"os"
)

// NewLogger returns the slog.Logger for the configured environment. Production
// always emits JSON at info level; elsewhere the format follows LOG_FORMAT and
// debug records carry their source location for tracing fetch pipelines.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	opts.Level = slog.LevelDebug
	opts.AddSource = true
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
