package auth

import (
	"golang.org/x/oauth2"
)

// BuildAuthorizationURL assembles the provider's authorization endpoint
// URL for the given challenge. Pure function; no side effects, no
// network.
//
// Google gets access_type=offline and prompt=consent so the provider
// issues a refresh token and re-prompts on every login instead of
// silently reusing a prior grant.
func BuildAuthorizationURL(cfg ProviderConfig, ch Challenge) string {
	oc := oauth2.Config{
		ClientID:    cfg.ClientID,
		RedirectURL: cfg.RedirectURI,
		Scopes:      cfg.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL: cfg.AuthorizationEndpoint,
		},
	}

	var opts []oauth2.AuthCodeOption
	if cfg.UsesPKCE {
		opts = append(opts, oauth2.S256ChallengeOption(ch.CodeVerifier))
	}
	if cfg.Name == ProviderGoogle {
		opts = append(opts,
			oauth2.AccessTypeOffline,
			oauth2.SetAuthURLParam("prompt", "consent"),
		)
	}

	return oc.AuthCodeURL(ch.State, opts...)
}
