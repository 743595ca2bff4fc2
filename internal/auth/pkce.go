package auth

import (
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Challenge carries the per-login random material for the PKCE flow:
// an opaque state token, the code verifier kept client-side in the state
// cookie, and the S256 challenge sent to the provider.
type Challenge struct {
	State         string
	CodeVerifier  string
	CodeChallenge string
}

// NewChallenge generates fresh state and PKCE material from
// crypto/rand-backed sources. State is a v4 UUID (122 bits); the code
// verifier is a 43-character base64url token over 256 bits of entropy.
// Predictable values here would open the login flow to session fixation,
// so nothing below uses math/rand.
func NewChallenge() Challenge {
	verifier := oauth2.GenerateVerifier()
	return Challenge{
		State:         uuid.NewString(),
		CodeVerifier:  verifier,
		CodeChallenge: oauth2.S256ChallengeFromVerifier(verifier),
	}
}
