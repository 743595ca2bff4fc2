// Package logger builds the application's slog loggers: JSON to stdout,
// optionally fanned out to Sentry when a DSN is configured.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
}

// New creates a JSON-formatted stdout logger.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// NewWithSentry creates a logger that writes to stdout and forwards
// warnings and errors to Sentry. With an empty DSN (or a failed Sentry
// init) it degrades to stdout-only, so local dev needs no Sentry setup.
func NewWithSentry(cfg SentryConfig) *slog.Logger {
	stdoutHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if cfg.DSN == "" {
		return slog.New(stdoutHandler)
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(stdoutHandler).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return slog.New(stdoutHandler)
	}

	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},                 // errors create Sentry issues
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError}, // stored for context/search
	}.NewSentryHandler(context.Background())

	return slog.New(newMultiHandler(stdoutHandler, sentryHandler))
}

// NewNope creates a no-op logger that discards all output.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
