package market

import (
	"context"
	"log/slog"
	"time"

	"github.com/cryptocoin/app/pkg/cache"
)

// cacheKey is the single cache slot market data lives under.
const cacheKey = "market:latest"

// Service resolves the latest market snapshot through three layers:
// process cache, the snapshots table, then the external endpoints.
// Concurrent cache misses collapse into one external fetch.
type Service struct {
	client *Client
	store  Store
	cache  cache.Cache[Snapshot]
	log    *slog.Logger
}

// NewService wires the market service. A nil logger discards output.
func NewService(client *Client, store Store, c cache.Cache[Snapshot], log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{client: client, store: store, cache: c, log: log}
}

// Latest returns the current market snapshot. A fresh DB row (written
// by another process or the refresh job) is served without touching
// the external endpoints; otherwise the endpoints are fetched and the
// result persisted best-effort.
func (s *Service) Latest(ctx context.Context) (Snapshot, error) {
	return cache.GetOrSet(ctx, s.cache, cacheKey, func(ctx context.Context) (Snapshot, time.Duration, error) {
		now := time.Now()

		if snap, err := s.store.Latest(ctx); err == nil && snap.fresh(now) {
			return snap, cacheTTL - now.Sub(snap.UpdatedAt), nil
		}

		snap, err := s.Refresh(ctx)
		if err != nil {
			return Snapshot{}, 0, err
		}
		return snap, cacheTTL, nil
	})
}

// Refresh fetches the external endpoints and persists the result. A
// failed insert does not fail the refresh; the snapshot is still
// usable, the history just has a gap.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	snap, err := s.client.Fetch(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	if err := s.store.Insert(ctx, snap); err != nil {
		s.log.WarnContext(ctx, "market snapshot not persisted", slog.Any("error", err))
	}

	_ = s.cache.Set(ctx, cacheKey, snap, cacheTTL)
	return snap, nil
}
