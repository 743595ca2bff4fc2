// Package market serves current Bitcoin market data: spot price,
// network difficulty, and block reward. Data comes from public
// endpoints, is cached for ten minutes, and every successful external
// fetch is persisted as a snapshot row.
package market

import (
	"errors"
	"time"
)

// cacheTTL bounds how stale served market data may be.
const cacheTTL = 10 * time.Minute

// ErrFetchFailed is returned when the external market endpoints could
// not produce a usable snapshot.
var ErrFetchFailed = errors.New("market: failed to fetch market data")

// Snapshot is one observation of the market.
type Snapshot struct {
	BTCPriceUSD    float64   `json:"btcPriceUsd"`
	Difficulty     float64   `json:"difficulty"`
	BlockRewardBTC float64   `json:"blockRewardBtc"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// fresh reports whether the snapshot is recent enough to serve.
func (s Snapshot) fresh(now time.Time) bool {
	return now.Sub(s.UpdatedAt) < cacheTTL
}
