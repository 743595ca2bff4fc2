package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Public data sources. blockchain.info's q endpoints answer with bare
// numbers in the response body; bcperblock is denominated in satoshis.
const (
	defaultPriceURL      = "https://api.coingecko.com/api/v3/simple/price?ids=bitcoin&vs_currencies=usd"
	defaultDifficultyURL = "https://api.blockchain.info/q/getdifficulty?cors=true"
	defaultRewardURL     = "https://api.blockchain.info/q/bcperblock?cors=true"

	fetchTimeout = 10 * time.Second
	satsPerBTC   = 1e8
)

// Client fetches market data from the public endpoints.
type Client struct {
	http          *http.Client
	priceURL      string
	difficultyURL string
	rewardURL     string
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// WithEndpoints overrides the data source URLs.
func WithEndpoints(priceURL, difficultyURL, rewardURL string) ClientOption {
	return func(cl *Client) {
		cl.priceURL = priceURL
		cl.difficultyURL = difficultyURL
		cl.rewardURL = rewardURL
	}
}

// NewClient creates a market data client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:          &http.Client{Timeout: fetchTimeout},
		priceURL:      defaultPriceURL,
		difficultyURL: defaultDifficultyURL,
		rewardURL:     defaultRewardURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch pulls price, difficulty, and block reward concurrently. Any
// failed call fails the whole fetch with ErrFetchFailed; there is no
// partial snapshot.
func (c *Client) Fetch(ctx context.Context) (Snapshot, error) {
	var (
		price      float64
		difficulty float64
		rewardSats float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		price, err = c.fetchPrice(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		difficulty, err = c.fetchNumber(gctx, c.difficultyURL)
		return err
	})
	g.Go(func() error {
		var err error
		rewardSats, err = c.fetchNumber(gctx, c.rewardURL)
		return err
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, errors.Join(ErrFetchFailed, err)
	}

	return Snapshot{
		BTCPriceUSD:    price,
		Difficulty:     difficulty,
		BlockRewardBTC: rewardSats / satsPerBTC,
		UpdatedAt:      time.Now().UTC(),
	}, nil
}

// priceResponse is CoinGecko's simple-price shape.
type priceResponse struct {
	Bitcoin struct {
		USD *float64 `json:"usd"`
	} `json:"bitcoin"`
}

func (c *Client) fetchPrice(ctx context.Context) (float64, error) {
	body, err := c.get(ctx, c.priceURL)
	if err != nil {
		return 0, err
	}

	var pr priceResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return 0, fmt.Errorf("decode price response: %w", err)
	}
	if pr.Bitcoin.USD == nil {
		return 0, errors.New("price response missing bitcoin.usd")
	}
	return *pr.Bitcoin.USD, nil
}

func (c *Client) fetchNumber(ctx context.Context, rawURL string) (float64, error) {
	body, err := c.get(ctx, rawURL)
	if err != nil {
		return 0, err
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(string(body)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s response: %w", rawURL, err)
	}
	return n, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("get %s: status=%d", rawURL, resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
