package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// outboundTimeout bounds every provider call; a hung provider surfaces
// as ErrTokenExchange/ErrProfileFetch instead of a stuck request.
const outboundTimeout = 10 * time.Second

// Tokens is the result of a successful code exchange.
type Tokens struct {
	AccessToken string
	IDToken     string
}

// TokenExchanger trades authorization codes for access tokens.
type TokenExchanger struct {
	client *http.Client
}

// NewTokenExchanger creates an exchanger. A nil client gets a default
// with a bounded timeout.
func NewTokenExchanger(client *http.Client) *TokenExchanger {
	if client == nil {
		client = &http.Client{Timeout: outboundTimeout}
	}
	return &TokenExchanger{client: client}
}

// tokenResponse covers both spellings providers use for the access
// token field.
type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	AccessTokenCamel string `json:"accessToken"`
	IDToken          string `json:"id_token"`
}

// Exchange performs the form-encoded POST to the provider's token
// endpoint. Every call issues a fresh request; authorization codes are
// single-use, so there is nothing to cache. Fails with ErrTokenExchange
// (carrying the provider's raw error body) on a non-2xx response or when
// no access token is present.
func (e *TokenExchanger) Exchange(ctx context.Context, cfg ProviderConfig, code, codeVerifier string) (Tokens, error) {
	form := url.Values{
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {cfg.RedirectURI},
		"code_verifier": {codeVerifier},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Tokens{}, errors.Join(ErrTokenExchange, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return Tokens{}, errors.Join(ErrTokenExchange, fmt.Errorf("post token endpoint: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Tokens{}, errors.Join(ErrTokenExchange, fmt.Errorf("status=%d body=%s", resp.StatusCode, body))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return Tokens{}, errors.Join(ErrTokenExchange, fmt.Errorf("decode token response: %w", err))
	}

	accessToken := tr.AccessToken
	if accessToken == "" {
		accessToken = tr.AccessTokenCamel
	}
	if accessToken == "" {
		return Tokens{}, errors.Join(ErrTokenExchange, errors.New("missing access token in provider response"))
	}

	return Tokens{AccessToken: accessToken, IDToken: tr.IDToken}, nil
}
