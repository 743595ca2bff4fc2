package auth_test

import (
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cryptocoin/app/internal/auth"
)

func TestNewChallenge(t *testing.T) {
	t.Parallel()

	t.Run("challenge is S256 of the verifier", func(t *testing.T) {
		t.Parallel()

		ch := auth.NewChallenge()
		sum := sha256.Sum256([]byte(ch.CodeVerifier))
		require.Equal(t, base64.RawURLEncoding.EncodeToString(sum[:]), ch.CodeChallenge)
	})

	t.Run("consecutive challenges never reuse material", func(t *testing.T) {
		t.Parallel()

		a := auth.NewChallenge()
		b := auth.NewChallenge()
		require.NotEqual(t, a.State, b.State)
		require.NotEqual(t, a.CodeVerifier, b.CodeVerifier)
		require.NotEqual(t, a.CodeChallenge, b.CodeChallenge)
	})
}

func TestBuildAuthorizationURL(t *testing.T) {
	t.Parallel()

	resolver, err := auth.NewResolver(testConfig(), false)
	require.NoError(t, err)

	t.Run("carries the standard authorization-code parameters", func(t *testing.T) {
		t.Parallel()

		cfg, err := resolver.Resolve(auth.ProviderGitHub)
		require.NoError(t, err)
		ch := auth.NewChallenge()

		u, err := url.Parse(auth.BuildAuthorizationURL(cfg, ch))
		require.NoError(t, err)

		q := u.Query()
		require.Equal(t, "code", q.Get("response_type"))
		require.Equal(t, "github-id", q.Get("client_id"))
		require.Equal(t, cfg.RedirectURI, q.Get("redirect_uri"))
		require.Equal(t, ch.State, q.Get("state"))
		require.Equal(t, "read:user user:email", q.Get("scope"))
		require.Equal(t, ch.CodeChallenge, q.Get("code_challenge"))
		require.Equal(t, "S256", q.Get("code_challenge_method"))
		require.Empty(t, q.Get("access_type"))
	})

	t.Run("google gets offline access and forced consent", func(t *testing.T) {
		t.Parallel()

		cfg, err := resolver.Resolve(auth.ProviderGoogle)
		require.NoError(t, err)
		ch := auth.NewChallenge()

		u, err := url.Parse(auth.BuildAuthorizationURL(cfg, ch))
		require.NoError(t, err)

		q := u.Query()
		require.Equal(t, "openid email profile", q.Get("scope"))
		require.Equal(t, "offline", q.Get("access_type"))
		require.Equal(t, "consent", q.Get("prompt"))
		require.Equal(t, "S256", q.Get("code_challenge_method"))
	})
}
