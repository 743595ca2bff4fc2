package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cryptocoin/app/internal/auth"
)

func TestTokenExchanger(t *testing.T) {
	t.Parallel()

	providerCfg := func(tokenURL string) auth.ProviderConfig {
		return auth.ProviderConfig{
			Name:          auth.ProviderGoogle,
			TokenEndpoint: tokenURL,
			ClientID:      "client-id",
			ClientSecret:  "client-secret",
			RedirectURI:   "http://localhost:8080/auth/google/callback",
		}
	}

	t.Run("posts the full form and decodes snake_case token", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			require.Equal(t, "client-id", r.PostForm.Get("client_id"))
			require.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
			require.Equal(t, "abc", r.PostForm.Get("code"))
			require.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
			require.Equal(t, "http://localhost:8080/auth/google/callback", r.PostForm.Get("redirect_uri"))
			require.Equal(t, "V", r.PostForm.Get("code_verifier"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"at-1","id_token":"idt-1"}`))
		}))
		defer srv.Close()

		tokens, err := auth.NewTokenExchanger(srv.Client()).Exchange(context.Background(), providerCfg(srv.URL), "abc", "V")
		require.NoError(t, err)
		require.Equal(t, "at-1", tokens.AccessToken)
		require.Equal(t, "idt-1", tokens.IDToken)
	})

	t.Run("accepts camelCase accessToken", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"accessToken":"at-camel"}`))
		}))
		defer srv.Close()

		tokens, err := auth.NewTokenExchanger(srv.Client()).Exchange(context.Background(), providerCfg(srv.URL), "abc", "V")
		require.NoError(t, err)
		require.Equal(t, "at-camel", tokens.AccessToken)
	})

	t.Run("non-2xx fails with the provider body attached", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
		}))
		defer srv.Close()

		_, err := auth.NewTokenExchanger(srv.Client()).Exchange(context.Background(), providerCfg(srv.URL), "abc", "V")
		require.ErrorIs(t, err, auth.ErrTokenExchange)
		require.Contains(t, err.Error(), "invalid_grant")
	})

	t.Run("missing access token fails", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"token_type":"bearer"}`))
		}))
		defer srv.Close()

		_, err := auth.NewTokenExchanger(srv.Client()).Exchange(context.Background(), providerCfg(srv.URL), "abc", "V")
		require.ErrorIs(t, err, auth.ErrTokenExchange)
	})
}
