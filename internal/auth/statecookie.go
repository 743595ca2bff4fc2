package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/cryptocoin/app/pkg/cookie"
)

// StateCookieName is the cookie carrying the pending login.
const StateCookieName = "oauth_state"

// stateCookieMaxAge bounds how long a started login stays valid. A
// callback arriving after the cookie expired is treated as no pending
// login.
const stateCookieMaxAge = 600 // seconds

// PendingLogin is the state-cookie payload: created at login start,
// consumed exactly once at callback, deleted regardless of outcome.
// Stored as base64url-encoded JSON, since raw JSON contains bytes that
// are invalid in cookie values.
type PendingLogin struct {
	State        string `json:"state"`
	CodeVerifier string `json:"codeVerifier"`
	Provider     string `json:"provider"`
}

// StateCookieStore persists pending logins in a short-lived cookie
// scoped to /auth/{provider}, so one provider's in-flight state cannot
// be replayed against another provider's callback.
type StateCookieStore struct {
	secure bool
}

// NewStateCookieStore creates a store. secure marks cookies Secure, set
// it when the site is served over https.
func NewStateCookieStore(secure bool) *StateCookieStore {
	return &StateCookieStore{secure: secure}
}

// Persist sets the state cookie for the pending login's provider.
func (s *StateCookieStore) Persist(w http.ResponseWriter, pending PendingLogin) error {
	payload, err := json.Marshal(pending)
	if err != nil {
		return err
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	s.manager(pending.Provider).Set(w, StateCookieName, encoded, stateCookieMaxAge)
	return nil
}

// Read returns the pending login from the request, or nil when the
// cookie is absent or malformed. Malformed input is not an error; it
// just means no login is pending.
func (s *StateCookieStore) Read(r *http.Request) *PendingLogin {
	c, err := r.Cookie(StateCookieName)
	if err != nil {
		return nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}

	var pending PendingLogin
	if err := json.Unmarshal(raw, &pending); err != nil {
		return nil
	}
	if pending.State == "" || pending.Provider == "" {
		return nil
	}

	return &pending
}

// Clear overwrites the provider-scoped state cookie with an expired one.
func (s *StateCookieStore) Clear(w http.ResponseWriter, provider string) {
	s.manager(provider).Delete(w, StateCookieName)
}

func (s *StateCookieStore) manager(provider string) *cookie.Manager {
	return cookie.New(
		cookie.WithPath("/auth/"+provider),
		cookie.WithSecure(s.secure),
	)
}
