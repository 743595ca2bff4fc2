package market_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/cryptocoin/app/internal/market"
	"github.com/cryptocoin/app/pkg/cache"
)

type fakeStore struct {
	mu        sync.Mutex
	snapshots []market.Snapshot
	insertErr error
}

func (f *fakeStore) Latest(context.Context) (market.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.snapshots) == 0 {
		return market.Snapshot{}, market.ErrNoSnapshot
	}
	return f.snapshots[len(f.snapshots)-1], nil
}

func (f *fakeStore) Insert(_ context.Context, s market.Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.snapshots = append(f.snapshots, s)
	return nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.snapshots)
}

// fakeMarket serves the three external endpoints and counts hits.
func fakeMarket(t *testing.T, price string, difficulty, rewardSats string) (*market.Client, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/price", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(price))
	})
	mux.HandleFunc("/difficulty", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(difficulty))
	})
	mux.HandleFunc("/reward", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rewardSats))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := market.NewClient(
		market.WithHTTPClient(srv.Client()),
		market.WithEndpoints(srv.URL+"/price", srv.URL+"/difficulty", srv.URL+"/reward"),
	)
	return client, &hits
}

func newCache(t *testing.T) cache.Cache[market.Snapshot] {
	t.Helper()
	c := cache.NewMemory[market.Snapshot]()
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClientFetch(t *testing.T) {
	t.Parallel()

	t.Run("combines the three endpoints into a snapshot", func(t *testing.T) {
		t.Parallel()

		client, _ := fakeMarket(t, `{"bitcoin":{"usd":100000}}`, "95000000000000.5\n", "312500000")
		snap, err := client.Fetch(context.Background())
		require.NoError(t, err)
		require.InDelta(t, 100000, snap.BTCPriceUSD, 1e-9)
		require.InDelta(t, 95000000000000.5, snap.Difficulty, 1e-3)
		// 312500000 sats = 3.125 BTC.
		require.InDelta(t, 3.125, snap.BlockRewardBTC, 1e-9)
		require.WithinDuration(t, time.Now(), snap.UpdatedAt, time.Minute)
	})

	t.Run("missing price field fails the fetch", func(t *testing.T) {
		t.Parallel()

		client, _ := fakeMarket(t, `{"bitcoin":{}}`, "1", "1")
		_, err := client.Fetch(context.Background())
		require.ErrorIs(t, err, market.ErrFetchFailed)
	})

	t.Run("non-numeric difficulty fails the fetch", func(t *testing.T) {
		t.Parallel()

		client, _ := fakeMarket(t, `{"bitcoin":{"usd":1}}`, "not-a-number", "1")
		_, err := client.Fetch(context.Background())
		require.ErrorIs(t, err, market.ErrFetchFailed)
	})
}

func TestServiceLatest(t *testing.T) {
	t.Parallel()

	t.Run("fetches externally and persists on a cold start", func(t *testing.T) {
		t.Parallel()

		client, hits := fakeMarket(t, `{"bitcoin":{"usd":100000}}`, "1", "312500000")
		store := &fakeStore{}
		svc := market.NewService(client, store, newCache(t), nil)

		snap, err := svc.Latest(context.Background())
		require.NoError(t, err)
		require.InDelta(t, 100000, snap.BTCPriceUSD, 1e-9)
		require.Equal(t, 1, store.count())
		require.EqualValues(t, 1, hits.Load())
	})

	t.Run("serves from cache without refetching", func(t *testing.T) {
		t.Parallel()

		client, hits := fakeMarket(t, `{"bitcoin":{"usd":100000}}`, "1", "312500000")
		store := &fakeStore{}
		svc := market.NewService(client, store, newCache(t), nil)

		_, err := svc.Latest(context.Background())
		require.NoError(t, err)
		_, err = svc.Latest(context.Background())
		require.NoError(t, err)
		require.EqualValues(t, 1, hits.Load())
	})

	t.Run("serves a fresh DB row without touching the endpoints", func(t *testing.T) {
		t.Parallel()

		client, hits := fakeMarket(t, `{"bitcoin":{"usd":100000}}`, "1", "312500000")
		store := &fakeStore{snapshots: []market.Snapshot{{
			BTCPriceUSD: 90000,
			UpdatedAt:   time.Now().Add(-time.Minute),
		}}}
		svc := market.NewService(client, store, newCache(t), nil)

		snap, err := svc.Latest(context.Background())
		require.NoError(t, err)
		require.InDelta(t, 90000, snap.BTCPriceUSD, 1e-9)
		require.Zero(t, hits.Load())
	})

	t.Run("refetches when the DB row is stale", func(t *testing.T) {
		t.Parallel()

		client, hits := fakeMarket(t, `{"bitcoin":{"usd":100000}}`, "1", "312500000")
		store := &fakeStore{snapshots: []market.Snapshot{{
			BTCPriceUSD: 90000,
			UpdatedAt:   time.Now().Add(-time.Hour),
		}}}
		svc := market.NewService(client, store, newCache(t), nil)

		snap, err := svc.Latest(context.Background())
		require.NoError(t, err)
		require.InDelta(t, 100000, snap.BTCPriceUSD, 1e-9)
		require.EqualValues(t, 1, hits.Load())
	})

	t.Run("failed persist still serves the snapshot", func(t *testing.T) {
		t.Parallel()

		client, _ := fakeMarket(t, `{"bitcoin":{"usd":100000}}`, "1", "312500000")
		store := &fakeStore{insertErr: errors.New("db down")}
		svc := market.NewService(client, store, newCache(t), nil)

		snap, err := svc.Latest(context.Background())
		require.NoError(t, err)
		require.InDelta(t, 100000, snap.BTCPriceUSD, 1e-9)
	})

	t.Run("concurrent cold requests collapse into one fetch", func(t *testing.T) {
		t.Parallel()

		client, hits := fakeMarket(t, `{"bitcoin":{"usd":100000}}`, "1", "312500000")
		store := &fakeStore{}
		svc := market.NewService(client, store, newCache(t), nil)

		var wg sync.WaitGroup
		errs := make([]error, 10)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.Latest(context.Background())
			}(i)
		}
		wg.Wait()

		for _, err := range errs {
			require.NoError(t, err)
		}
		require.EqualValues(t, 1, hits.Load())
	})
}

func TestRefreshTask(t *testing.T) {
	t.Parallel()

	client, _ := fakeMarket(t, `{"bitcoin":{"usd":100000}}`, "1", "312500000")
	store := &fakeStore{}
	svc := market.NewService(client, store, newCache(t), nil)

	task := market.NewRefreshTask(svc, nil)
	require.Equal(t, "market_refresh", task.Name())
	require.Equal(t, "*/10 * * * *", task.Schedule())
	require.NoError(t, task.Handle(context.Background()))
	require.Equal(t, 1, store.count())
}

func TestMarketHandler(t *testing.T) {
	t.Parallel()

	t.Run("serves the snapshot as JSON", func(t *testing.T) {
		t.Parallel()

		client, _ := fakeMarket(t, `{"bitcoin":{"usd":100000}}`, "95000000000000", "312500000")
		svc := market.NewService(client, &fakeStore{}, newCache(t), nil)

		r := chi.NewRouter()
		market.NewHandler(svc, nil).Routes(r)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/market/latest", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			BTCPriceUSD    float64 `json:"btcPriceUsd"`
			Difficulty     float64 `json:"difficulty"`
			BlockRewardBTC float64 `json:"blockRewardBtc"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.InDelta(t, 100000, body.BTCPriceUSD, 1e-9)
		require.InDelta(t, 3.125, body.BlockRewardBTC, 1e-9)
	})

	t.Run("upstream failure is a 500", func(t *testing.T) {
		t.Parallel()

		client, _ := fakeMarket(t, `oops`, "1", "1")
		svc := market.NewService(client, &fakeStore{}, newCache(t), nil)

		r := chi.NewRouter()
		market.NewHandler(svc, nil).Routes(r)

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/market/latest", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "Failed to fetch market data")
	})
}
