package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// userAgent identifies this app on provider API calls; GitHub rejects
// requests without one.
const userAgent = "cryptocoin-app"

// Profile is the provider-agnostic user identity derived from a
// provider's userinfo response. Transient; never persisted as-is.
type Profile struct {
	Email          string
	Name           string
	AvatarURL      string
	ProviderUserID string
}

// ProfileFetcher retrieves normalized user profiles from providers.
// Response mapping is polymorphic over the provider key; each provider
// gets an explicit decoder instead of optimistic field access.
type ProfileFetcher struct {
	client *http.Client
}

// NewProfileFetcher creates a fetcher. A nil client gets a default with
// a bounded timeout.
func NewProfileFetcher(client *http.Client) *ProfileFetcher {
	if client == nil {
		client = &http.Client{Timeout: outboundTimeout}
	}
	return &ProfileFetcher{client: client}
}

// Fetch retrieves the user's profile from the provider's userinfo
// endpoint with a bearer token. Fails with ErrProfileFetch on non-2xx
// responses. An unknown provider key fails with ErrUnsupportedProvider;
// the resolver already rejects those, so this is unreachable in the
// normal flow.
func (f *ProfileFetcher) Fetch(ctx context.Context, cfg ProviderConfig, accessToken string) (*Profile, error) {
	switch cfg.Name {
	case ProviderGoogle:
		return f.fetchGoogle(ctx, cfg, accessToken)
	case ProviderGitHub:
		return f.fetchGitHub(ctx, cfg, accessToken)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Name)
	}
}

// getJSON issues an authenticated GET and decodes the JSON response
// into dest. Non-2xx responses fail with ErrProfileFetch carrying the
// raw body.
func (f *ProfileFetcher) getJSON(ctx context.Context, rawURL, accessToken, accept string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.Join(ErrProfileFetch, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return errors.Join(ErrProfileFetch, fmt.Errorf("get %s: %w", rawURL, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Join(ErrProfileFetch, fmt.Errorf("status=%d body=%s", resp.StatusCode, body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return errors.Join(ErrProfileFetch, fmt.Errorf("decode response: %w", err))
	}

	return nil
}
