// Command server runs the cryptocoin backend: OAuth login, scenario
// storage, market data, calculators, and the contact form.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"

	"github.com/cryptocoin/app/config"
	"github.com/cryptocoin/app/internal/auth"
	"github.com/cryptocoin/app/internal/calc"
	"github.com/cryptocoin/app/internal/contact"
	appdb "github.com/cryptocoin/app/internal/db"
	"github.com/cryptocoin/app/internal/market"
	"github.com/cryptocoin/app/internal/scenario"
	"github.com/cryptocoin/app/internal/server"
	"github.com/cryptocoin/app/internal/user"
	"github.com/cryptocoin/app/pkg/cache"
	"github.com/cryptocoin/app/pkg/db"
	"github.com/cryptocoin/app/pkg/job"
	"github.com/cryptocoin/app/pkg/logger"
	"github.com/cryptocoin/app/pkg/mailer"
	resendmailer "github.com/cryptocoin/app/pkg/mailer/resend"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Best effort; production injects real environment variables.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration failed", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.NewWithSentry(cfg.Sentry)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database, schema, and the job queue's own tables.
	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, appdb.Migrations, cfg.DB.MigrationsTable, log); err != nil {
		return err
	}
	riverMigrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return err
	}
	if _, err := riverMigrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return err
	}

	// Auth flow.
	resolver, err := auth.NewResolver(cfg.Auth, cfg.Production())
	if err != nil {
		return err
	}
	sessions, err := auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Production())
	if err != nil {
		return err
	}
	states := auth.NewStateCookieStore(cfg.Production())
	users := user.NewService(user.NewPgxStore(pool), log)

	// Market data, cached in Redis when configured.
	marketCache, err := newMarketCache(cfg.RedisURL)
	if err != nil {
		return err
	}
	defer marketCache.Close()
	markets := market.NewService(market.NewClient(), market.NewPgxStore(pool), marketCache, log)

	// Background jobs: contact notifications plus the market refresh.
	var sender mailer.Sender
	if cfg.Resend.Configured() {
		sender = resendmailer.New(cfg.Resend)
	}
	jobs, err := job.NewManager(pool,
		job.WithLogger(log),
		job.WithTask(contact.NewTask(sender, cfg.ContactInbox, log)),
		job.WithScheduledTask(market.NewRefreshTask(markets, log)),
	)
	if err != nil {
		return err
	}
	if err := jobs.Start(ctx); err != nil {
		return err
	}

	handler := server.New(server.Deps{
		Log: log,
		DB:  pool,
		Handlers: []server.Mounter{
			auth.NewHandler(resolver, states, sessions,
				auth.NewTokenExchanger(nil), auth.NewProfileFetcher(nil), users, log),
			scenario.NewHandler(scenario.NewPgxStore(pool), log),
			market.NewHandler(markets, log),
			contact.NewHandler(jobs, log),
			calc.NewHandler(),
		},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", slog.String("addr", cfg.HTTPAddr), slog.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		shutdownErr = errors.Join(shutdownErr, err)
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		shutdownErr = errors.Join(shutdownErr, err)
	}
	return shutdownErr
}

// newMarketCache picks the snapshot cache backend: Redis when a URL is
// configured, in-process memory otherwise.
func newMarketCache(redisURL string) (cache.Cache[market.Snapshot], error) {
	if redisURL == "" {
		return cache.NewMemory[market.Snapshot](), nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return cache.NewRedis[market.Snapshot](redis.NewClient(opts)), nil
}
