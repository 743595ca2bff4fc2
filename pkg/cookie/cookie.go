package cookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// Errors.
var (
	ErrNotFound = errors.New("cookie: not found")
	ErrNoSecret = errors.New("cookie: secret required")
	ErrBadSig   = errors.New("cookie: invalid signature")
)

// Manager handles cookie operations with a fixed set of attributes.
// Construct one manager per cookie scope (path, secure flag, secret).
type Manager struct {
	secret   []byte // nil = signing unavailable
	domain   string
	path     string
	secure   bool
	httpOnly bool
	sameSite http.SameSite
}

// Option configures the Manager.
type Option func(*Manager)

// New creates a cookie Manager with the given options.
// Defaults: path "/", HttpOnly, SameSite=Lax.
func New(opts ...Option) *Manager {
	m := &Manager{
		path:     "/",
		httpOnly: true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithSecret sets the HMAC signing secret. Must be at least 32 bytes;
// shorter secrets are ignored and signing stays unavailable.
func WithSecret(secret string) Option {
	return func(m *Manager) {
		if len(secret) >= 32 {
			m.secret = []byte(secret)
		}
	}
}

// WithDomain sets the cookie domain.
func WithDomain(domain string) Option {
	return func(m *Manager) {
		m.domain = domain
	}
}

// WithPath sets the cookie path.
func WithPath(path string) Option {
	return func(m *Manager) {
		m.path = path
	}
}

// WithSecure sets the Secure flag.
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithSameSite sets the SameSite attribute.
func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) {
		m.sameSite = ss
	}
}

// Get returns a plain cookie value.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrNotFound
		}
		return "", err
	}
	return c.Value, nil
}

// Set sets a plain cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, m.cookie(name, value, maxAge))
}

// Delete overwrites a cookie with an expired one on the manager's path.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, m.cookie(name, "", -1))
}

// GetSigned returns a signed cookie value after verifying its signature.
// Returns ErrNoSecret if no secret is configured, ErrBadSig if the value
// is malformed or the signature does not match.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	if m.secret == nil {
		return "", ErrNoSecret
	}

	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}

	// Format: base64url(value).base64url(signature), where the
	// signature covers the encoded payload string so external
	// verifiers never need to decode before checking.
	parts := strings.SplitN(raw, ".", 2)
	if len(parts) != 2 {
		return "", ErrBadSig
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", ErrBadSig
	}

	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(parts[0]))
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return "", ErrBadSig
	}

	value, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return "", ErrBadSig
	}

	return string(value), nil
}

// SetSigned sets a cookie whose value is HMAC-SHA256 signed. The MAC is
// computed over the base64url-encoded payload.
// Returns ErrNoSecret if no secret is configured.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, maxAge int) error {
	if m.secret == nil {
		return ErrNoSecret
	}

	encoded := base64.RawURLEncoding.EncodeToString([]byte(value))

	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(encoded))
	sig := mac.Sum(nil)

	http.SetCookie(w, m.cookie(name, encoded+"."+base64.RawURLEncoding.EncodeToString(sig), maxAge))
	return nil
}

// cookie creates a cookie with the manager's defaults.
func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	}
}
