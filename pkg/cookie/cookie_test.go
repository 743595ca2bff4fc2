package cookie_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cryptocoin/app/pkg/cookie"
)

const testSecret = "this-is-a-32-byte-or-longer-key!"

func TestPlainCookies(t *testing.T) {
	m := cookie.New()

	t.Run("get non-existent cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, err := m.Get(r, "missing")
		if !errors.Is(err, cookie.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("set and get cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		m.Set(w, "name", "value", 3600)

		cookies := w.Result().Cookies()
		if len(cookies) != 1 {
			t.Fatalf("expected 1 cookie, got %d", len(cookies))
		}

		c := cookies[0]
		if c.Name != "name" || c.Value != "value" {
			t.Errorf("cookie = %s=%s, want name=value", c.Name, c.Value)
		}
		if c.MaxAge != 3600 {
			t.Errorf("MaxAge = %d, want 3600", c.MaxAge)
		}

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(c)

		val, err := m.Get(r, "name")
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if val != "value" {
			t.Errorf("Get() = %q, want %q", val, "value")
		}
	})

	t.Run("delete cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		m.Delete(w, "name")

		cookies := w.Result().Cookies()
		if len(cookies) != 1 {
			t.Fatalf("expected 1 cookie, got %d", len(cookies))
		}
		if cookies[0].MaxAge >= 0 {
			t.Errorf("MaxAge = %d, want negative", cookies[0].MaxAge)
		}
	})
}

func TestCookieAttributes(t *testing.T) {
	m := cookie.New(
		cookie.WithPath("/auth/google"),
		cookie.WithSecure(true),
		cookie.WithSameSite(http.SameSiteLaxMode),
	)

	w := httptest.NewRecorder()
	m.Set(w, "oauth_state", "{}", 600)

	c := w.Result().Cookies()[0]
	if c.Path != "/auth/google" {
		t.Errorf("Path = %q, want /auth/google", c.Path)
	}
	if !c.Secure {
		t.Error("expected Secure flag")
	}
	if !c.HttpOnly {
		t.Error("expected HttpOnly flag")
	}
	if c.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", c.SameSite)
	}
}

func TestSignedCookies(t *testing.T) {
	m := cookie.New(cookie.WithSecret(testSecret))

	t.Run("no secret configured", func(t *testing.T) {
		plain := cookie.New()
		if err := plain.SetSigned(httptest.NewRecorder(), "s", "v", 0); !errors.Is(err, cookie.ErrNoSecret) {
			t.Errorf("expected ErrNoSecret, got %v", err)
		}
	})

	t.Run("short secret is rejected", func(t *testing.T) {
		weak := cookie.New(cookie.WithSecret("short"))
		if err := weak.SetSigned(httptest.NewRecorder(), "s", "v", 0); !errors.Is(err, cookie.ErrNoSecret) {
			t.Errorf("expected ErrNoSecret, got %v", err)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		w := httptest.NewRecorder()
		if err := m.SetSigned(w, "session", `{"user_id":"u1"}`, 3600); err != nil {
			t.Fatalf("SetSigned() error: %v", err)
		}

		c := w.Result().Cookies()[0]
		if !strings.Contains(c.Value, ".") {
			t.Fatalf("signed value missing separator: %q", c.Value)
		}

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(c)

		val, err := m.GetSigned(r, "session")
		if err != nil {
			t.Fatalf("GetSigned() error: %v", err)
		}
		if val != `{"user_id":"u1"}` {
			t.Errorf("GetSigned() = %q", val)
		}
	})

	t.Run("signature covers the encoded payload", func(t *testing.T) {
		w := httptest.NewRecorder()
		if err := m.SetSigned(w, "session", `{"userId":"u1"}`, 3600); err != nil {
			t.Fatalf("SetSigned() error: %v", err)
		}

		// An external verifier recomputes the MAC over the first
		// segment as-is, without decoding it.
		parts := strings.SplitN(w.Result().Cookies()[0].Value, ".", 2)
		if len(parts) != 2 {
			t.Fatalf("expected 2 segments, got %d", len(parts))
		}

		mac := hmac.New(sha256.New, []byte(testSecret))
		mac.Write([]byte(parts[0]))
		want := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
		if parts[1] != want {
			t.Errorf("signature = %q, want HMAC over encoded payload %q", parts[1], want)
		}

		decoded, err := base64.RawURLEncoding.DecodeString(parts[0])
		if err != nil {
			t.Fatalf("payload segment not base64url: %v", err)
		}
		if string(decoded) != `{"userId":"u1"}` {
			t.Errorf("payload = %q", decoded)
		}
	})

	t.Run("tampered value", func(t *testing.T) {
		w := httptest.NewRecorder()
		if err := m.SetSigned(w, "session", "payload", 3600); err != nil {
			t.Fatal(err)
		}

		c := w.Result().Cookies()[0]
		c.Value = "dGFtcGVyZWQ" + c.Value[strings.Index(c.Value, "."):]

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(c)

		if _, err := m.GetSigned(r, "session"); !errors.Is(err, cookie.ErrBadSig) {
			t.Errorf("expected ErrBadSig, got %v", err)
		}
	})

	t.Run("malformed value", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "session", Value: "no-separator"})

		if _, err := m.GetSigned(r, "session"); !errors.Is(err, cookie.ErrBadSig) {
			t.Errorf("expected ErrBadSig, got %v", err)
		}
	})

	t.Run("different secret fails verification", func(t *testing.T) {
		w := httptest.NewRecorder()
		if err := m.SetSigned(w, "session", "payload", 3600); err != nil {
			t.Fatal(err)
		}

		other := cookie.New(cookie.WithSecret("another-32-byte-or-longer-secret"))
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(w.Result().Cookies()[0])

		if _, err := other.GetSigned(r, "session"); !errors.Is(err, cookie.ErrBadSig) {
			t.Errorf("expected ErrBadSig, got %v", err)
		}
	})
}
