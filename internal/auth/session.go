package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cryptocoin/app/pkg/cookie"
)

// SessionCookieName is the signed session cookie.
const SessionCookieName = "session_token"

// sessionMaxAge is the session lifetime.
const sessionMaxAge = 30 * 24 * time.Hour

// minSecretLen guards against weak signing keys; HMAC-SHA256 wants at
// least a full hash block of entropy.
const minSecretLen = 32

// ErrNoSession is returned when the request carries no valid session.
var ErrNoSession = errors.New("auth: no valid session")

// SessionPayload is the signed, client-held session state. There is no
// server-side session table; possession of a validly-signed cookie is
// the session. ExpiresAt is unix milliseconds.
type SessionPayload struct {
	UserID    string `json:"userId"`
	Provider  string `json:"provider"`
	ExpiresAt int64  `json:"expiresAt"`
}

// Expired reports whether the payload's own expiry has passed. The
// cookie max-age normally handles this, but the embedded timestamp is
// authoritative in case a client replays an old cookie value.
func (p SessionPayload) Expired() bool {
	return time.Now().UnixMilli() >= p.ExpiresAt
}

// SessionManager issues and reads HMAC-signed session cookies.
type SessionManager struct {
	cookies *cookie.Manager
}

// NewSessionManager fails with ErrMissingSecret when the signing secret
// is absent or shorter than 32 bytes. Called at process start, so a
// misconfigured deployment dies before serving a single login.
func NewSessionManager(secret string, secure bool) (*SessionManager, error) {
	if len(secret) < minSecretLen {
		return nil, ErrMissingSecret
	}

	return &SessionManager{
		cookies: cookie.New(
			cookie.WithSecret(secret),
			cookie.WithSecure(secure),
		),
	}, nil
}

// Issue signs and sets the session cookie for the given user.
func (m *SessionManager) Issue(w http.ResponseWriter, userID, provider string) error {
	payload, err := json.Marshal(SessionPayload{
		UserID:    userID,
		Provider:  provider,
		ExpiresAt: time.Now().Add(sessionMaxAge).UnixMilli(),
	})
	if err != nil {
		return err
	}

	return m.cookies.SetSigned(w, SessionCookieName, string(payload), int(sessionMaxAge.Seconds()))
}

// Read returns the session payload from the request, or ErrNoSession
// when the cookie is absent, tampered with, malformed, or expired.
func (m *SessionManager) Read(r *http.Request) (*SessionPayload, error) {
	raw, err := m.cookies.GetSigned(r, SessionCookieName)
	if err != nil {
		return nil, ErrNoSession
	}

	var payload SessionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, ErrNoSession
	}
	if payload.UserID == "" || payload.Expired() {
		return nil, ErrNoSession
	}

	return &payload, nil
}

// Clear overwrites the session cookie with an expired one.
func (m *SessionManager) Clear(w http.ResponseWriter) {
	m.cookies.Delete(w, SessionCookieName)
}
