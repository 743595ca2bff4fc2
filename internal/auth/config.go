package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// Provider keys.
const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	githubUserURL     = "https://api.github.com/user"
	githubEmailsURL   = "https://api.github.com/user/emails"
)

// Config holds the OAuth-related process configuration.
type Config struct {
	AppURL        string `env:"APP_URL" envDefault:"http://localhost:8080"`
	SessionSecret string `env:"SESSION_SECRET"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
}

// ProviderConfig is the fully-resolved, immutable configuration for one
// OAuth provider: static endpoint metadata plus per-deployment secrets.
type ProviderConfig struct {
	Name                  string
	AuthorizationEndpoint string
	TokenEndpoint         string
	UserInfoEndpoint      string
	// EmailsEndpoint is the secondary email listing used when the
	// userinfo response hides the email. Only GitHub has one.
	EmailsEndpoint string
	Scopes         []string
	UsesPKCE       bool
	ClientID       string
	ClientSecret   string
	RedirectURI    string
}

// providerDefaults is the static per-provider endpoint table. Endpoint
// URLs for the authorization-code flow come from golang.org/x/oauth2's
// provider packages; userinfo endpoints are not part of OAuth2 proper, so
// they are pinned here.
type providerDefaults struct {
	authorizationEndpoint string
	tokenEndpoint         string
	userInfoEndpoint      string
	emailsEndpoint        string
	scopes                []string
}

var providerTable = map[string]providerDefaults{
	ProviderGoogle: {
		authorizationEndpoint: google.Endpoint.AuthURL,
		tokenEndpoint:         google.Endpoint.TokenURL,
		userInfoEndpoint:      googleUserInfoURL,
		scopes:                []string{"openid", "email", "profile"},
	},
	ProviderGitHub: {
		authorizationEndpoint: github.Endpoint.AuthURL,
		tokenEndpoint:         github.Endpoint.TokenURL,
		userInfoEndpoint:      githubUserURL,
		emailsEndpoint:        githubEmailsURL,
		scopes:                []string{"read:user", "user:email"},
	},
}

// Resolver maps provider keys to fully-populated ProviderConfigs.
// Secrets are injected through Config instead of read from ambient
// process environment, so tests can run with synthetic values.
type Resolver struct {
	cfg     Config
	baseURL string
}

// NewResolver validates the app base URL once at startup and returns a
// resolver. In production the base URL must be https; the trailing slash
// is stripped so redirect URIs join cleanly.
func NewResolver(cfg Config, production bool) (*Resolver, error) {
	baseURL := strings.TrimSuffix(cfg.AppURL, "/")
	if baseURL == "" {
		return nil, errors.New("auth: app base URL required")
	}
	if production && strings.HasPrefix(baseURL, "http://") {
		return nil, ErrInsecureBaseURL
	}

	return &Resolver{cfg: cfg, baseURL: baseURL}, nil
}

// AppBaseURL returns the normalized public base URL of the application.
func (r *Resolver) AppBaseURL() string {
	return r.baseURL
}

// Resolve returns the ProviderConfig for the given provider key.
// Returns ErrUnsupportedProvider for unknown keys and
// ErrMissingClientID/ErrMissingClientSecret when deployment secrets are
// absent.
func (r *Resolver) Resolve(provider string) (ProviderConfig, error) {
	defaults, ok := providerTable[provider]
	if !ok {
		return ProviderConfig{}, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}

	clientID, clientSecret := r.credentials(provider)
	if clientID == "" {
		return ProviderConfig{}, fmt.Errorf("%w: %s", ErrMissingClientID, provider)
	}
	if clientSecret == "" {
		return ProviderConfig{}, fmt.Errorf("%w: %s", ErrMissingClientSecret, provider)
	}

	return ProviderConfig{
		Name:                  provider,
		AuthorizationEndpoint: defaults.authorizationEndpoint,
		TokenEndpoint:         defaults.tokenEndpoint,
		UserInfoEndpoint:      defaults.userInfoEndpoint,
		EmailsEndpoint:        defaults.emailsEndpoint,
		Scopes:                defaults.scopes,
		UsesPKCE:              true,
		ClientID:              clientID,
		ClientSecret:          clientSecret,
		RedirectURI:           fmt.Sprintf("%s/auth/%s/callback", r.baseURL, provider),
	}, nil
}

func (r *Resolver) credentials(provider string) (id, secret string) {
	switch provider {
	case ProviderGoogle:
		return r.cfg.GoogleClientID, r.cfg.GoogleClientSecret
	case ProviderGitHub:
		return r.cfg.GitHubClientID, r.cfg.GitHubClientSecret
	default:
		return "", ""
	}
}
