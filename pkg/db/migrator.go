package db

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies all pending goose migrations from the embedded FS.
// The pgx pool is bridged to database/sql via stdlib.OpenDBFromPool;
// the returned *sql.DB shares the pool's connections, so it must not be
// closed here.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations embed.FS, migrationsTable string, log *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLogger{log})
	goose.SetTableName(migrationsTable)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return errors.Join(ErrApplyMigrations, err)
	}

	return nil
}

type gooseLogger struct {
	log *slog.Logger
}

func (g *gooseLogger) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...))
}

func (g *gooseLogger) Fatalf(format string, args ...any) {
	// Error level only; goose returns an error that propagates up, and
	// os.Exit here would skip shutdown hooks.
	g.log.Error(fmt.Sprintf(format, args...))
}
