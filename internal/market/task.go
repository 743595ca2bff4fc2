package market

import (
	"context"
	"log/slog"
)

// RefreshTask is the periodic market refresh. Running it on a schedule
// keeps the snapshots table and cache warm so request-path fetches stay
// rare.
type RefreshTask struct {
	service *Service
	log     *slog.Logger
}

// NewRefreshTask creates the scheduled refresh task.
func NewRefreshTask(service *Service, log *slog.Logger) *RefreshTask {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &RefreshTask{service: service, log: log}
}

// Name implements the scheduled task contract.
func (t *RefreshTask) Name() string { return "market_refresh" }

// Schedule runs every ten minutes, matching the cache TTL.
func (t *RefreshTask) Schedule() string { return "*/10 * * * *" }

// Handle refreshes the snapshot. Errors are returned so the job queue
// records the failure; the stale cache keeps serving meanwhile.
func (t *RefreshTask) Handle(ctx context.Context) error {
	snap, err := t.service.Refresh(ctx)
	if err != nil {
		return err
	}

	t.log.InfoContext(ctx, "market snapshot refreshed",
		slog.Float64("btc_price_usd", snap.BTCPriceUSD),
		slog.Float64("difficulty", snap.Difficulty))
	return nil
}
