package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect establishes a PostgreSQL connection pool with retry logic.
// Each failed attempt waits (attempt+1)*RetryInterval before retrying,
// so simultaneous service restarts don't hammer the database.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	connConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrParseConfig, err)
	}
	connConfig.MaxConns = cfg.MaxOpenConns
	connConfig.MinConns = cfg.MinConns
	connConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	connConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	connConfig.MaxConnLifetime = cfg.MaxConnLifetime

	attempts := max(cfg.RetryAttempts, 1)
	for i := range attempts {
		pool, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err != nil {
			if err := wait(ctx, time.Duration(i+1)*cfg.RetryInterval); err != nil {
				return nil, err
			}
			continue
		}

		// Ping to catch authentication and permission issues, not just
		// unreachable hosts.
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			if err := wait(ctx, time.Duration(i+1)*cfg.RetryInterval); err != nil {
				return nil, err
			}
			continue
		}

		return pool, nil
	}

	return nil, ErrOpenConnection
}

func wait(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return errors.Join(ErrOpenConnection, ctx.Err())
	case <-time.After(d):
		return nil
	}
}
