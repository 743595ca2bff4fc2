package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoSnapshot is returned when no snapshot row exists yet.
var ErrNoSnapshot = errors.New("market: no snapshot")

// Store is the snapshot persistence boundary.
type Store interface {
	Latest(ctx context.Context) (Snapshot, error)
	Insert(ctx context.Context, s Snapshot) error
}

// PgxStore backs Store with postgres.
type PgxStore struct {
	pool *pgxpool.Pool
}

// NewPgxStore creates a store on the given pool.
func NewPgxStore(pool *pgxpool.Pool) *PgxStore {
	return &PgxStore{pool: pool}
}

// Latest returns the newest snapshot, or ErrNoSnapshot.
func (s *PgxStore) Latest(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := s.pool.QueryRow(ctx,
		`SELECT btc_price_usd, difficulty, block_reward_btc, created_at
		 FROM market_snapshots
		 ORDER BY created_at DESC
		 LIMIT 1`,
	).Scan(&snap.BTCPriceUSD, &snap.Difficulty, &snap.BlockRewardBTC, &snap.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Snapshot{}, ErrNoSnapshot
		}
		return Snapshot{}, fmt.Errorf("latest snapshot: %w", err)
	}
	return snap, nil
}

// Insert persists a snapshot observation.
func (s *PgxStore) Insert(ctx context.Context, snap Snapshot) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO market_snapshots (btc_price_usd, difficulty, block_reward_btc, created_at)
		 VALUES ($1, $2, $3, $4)`,
		snap.BTCPriceUSD, snap.Difficulty, snap.BlockRewardBTC, snap.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}
