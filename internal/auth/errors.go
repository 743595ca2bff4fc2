package auth

import "errors"

var (
	// ErrUnsupportedProvider is returned when the provider key is not in
	// the known set (google, github).
	ErrUnsupportedProvider = errors.New("auth: unsupported OAuth provider")

	// ErrMissingClientID is returned when a provider's client ID is not
	// configured.
	ErrMissingClientID = errors.New("auth: missing OAuth client ID")

	// ErrMissingClientSecret is returned when a provider's client secret
	// is not configured.
	ErrMissingClientSecret = errors.New("auth: missing OAuth client secret")

	// ErrInsecureBaseURL is returned when APP_URL uses plain http in a
	// production environment.
	ErrInsecureBaseURL = errors.New("auth: app base URL must be https in production")

	// ErrMissingSecret is returned when the session signing secret is
	// absent or too short. There is no fallback; sessions are never
	// signed with a weak default.
	ErrMissingSecret = errors.New("auth: session signing secret required")

	// ErrInvalidState is returned on a callback whose state parameter or
	// provider does not match the pending login cookie. Treated as
	// potential CSRF; no session is issued.
	ErrInvalidState = errors.New("auth: invalid OAuth state")

	// ErrTokenExchange is returned when the authorization code could not
	// be traded for an access token.
	ErrTokenExchange = errors.New("auth: token exchange failed")

	// ErrProfileFetch is returned when the provider's userinfo endpoint
	// did not yield a usable profile.
	ErrProfileFetch = errors.New("auth: failed to fetch user profile")
)
