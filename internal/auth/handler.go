package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cryptocoin/app/internal/httpx"
	"github.com/cryptocoin/app/internal/user"
)

// Response messages returned to the browser. Deliberately vague; the
// interesting detail goes to the log, not the attacker.
const (
	msgMissingCodeOrState  = "Missing authorization code or state parameter"
	msgUnsupportedProvider = "Unsupported provider"
	msgInvalidState        = "Invalid OAuth state"
	msgCallbackFailed      = "OAuth callback failed"
	msgStartFailed         = "Unable to start OAuth flow"
)

// Exchanger trades an authorization code for tokens.
type Exchanger interface {
	Exchange(ctx context.Context, cfg ProviderConfig, code, codeVerifier string) (Tokens, error)
}

// Fetcher retrieves a normalized profile with an access token.
type Fetcher interface {
	Fetch(ctx context.Context, cfg ProviderConfig, accessToken string) (*Profile, error)
}

// UserDirectory is the slice of the user service the login flow needs.
type UserDirectory interface {
	UpsertFromOAuth(ctx context.Context, p user.OAuthProfile) (*user.User, error)
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// Handler serves the OAuth login flow: start redirect, provider
// callback, logout, and the session readback endpoint.
type Handler struct {
	resolver  *Resolver
	states    *StateCookieStore
	sessions  *SessionManager
	exchanger Exchanger
	profiles  Fetcher
	users     UserDirectory
	log       *slog.Logger
}

// NewHandler wires the login flow. A nil logger discards output.
func NewHandler(
	resolver *Resolver,
	states *StateCookieStore,
	sessions *SessionManager,
	exchanger Exchanger,
	profiles Fetcher,
	users UserDirectory,
	log *slog.Logger,
) *Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		resolver:  resolver,
		states:    states,
		sessions:  sessions,
		exchanger: exchanger,
		profiles:  profiles,
		users:     users,
		log:       log,
	}
}

// Routes mounts the auth endpoints on the router.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/auth/{provider}/start", h.start)
	r.Get("/auth/{provider}/callback", h.callback)
	r.Get("/auth/logout", h.logout)
	r.Get("/api/me", h.me)
}

// start begins a login: resolve the provider, mint a fresh state and
// PKCE pair, persist them in the state cookie, and send the browser to
// the provider's authorization endpoint.
func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	cfg, err := h.resolver.Resolve(provider)
	if err != nil {
		if errors.Is(err, ErrUnsupportedProvider) {
			httpx.Error(w, http.StatusBadRequest, msgUnsupportedProvider)
			return
		}
		h.log.ErrorContext(r.Context(), "oauth start failed",
			slog.String("provider", provider), slog.Any("error", err))
		httpx.Error(w, http.StatusBadRequest, msgStartFailed)
		return
	}

	challenge := NewChallenge()

	if err := h.states.Persist(w, PendingLogin{
		State:        challenge.State,
		CodeVerifier: challenge.CodeVerifier,
		Provider:     provider,
	}); err != nil {
		h.log.ErrorContext(r.Context(), "oauth start failed",
			slog.String("provider", provider), slog.Any("error", err))
		httpx.Error(w, http.StatusBadRequest, msgStartFailed)
		return
	}

	http.Redirect(w, r, BuildAuthorizationURL(cfg, challenge), http.StatusFound)
}

// callback resolves a pending login. Validation order matters: query
// shape first, then provider, then cookie/state match, then the
// provider round trips. Every failure clears the state cookie when one
// was presented, and no failure path ever issues a session.
func (h *Handler) callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	provider := chi.URLParam(r, "provider")
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	login := Anonymous()
	if pending := h.states.Read(r); pending != nil {
		login = login.Begin(*pending)
	}
	fail := func(status int, msg string) {
		if login.Phase == PhasePending {
			h.states.Clear(w, provider)
		}
		httpx.Error(w, status, msg)
	}

	if code == "" || state == "" {
		fail(http.StatusBadRequest, msgMissingCodeOrState)
		return
	}

	cfg, err := h.resolver.Resolve(provider)
	if err != nil {
		fail(http.StatusBadRequest, msgUnsupportedProvider)
		return
	}

	if !login.CanComplete(provider, state) {
		h.log.WarnContext(ctx, "oauth state validation failed",
			slog.String("provider", provider),
			slog.Bool("cookie_present", login.Phase == PhasePending))
		fail(http.StatusBadRequest, msgInvalidState)
		return
	}

	tokens, err := h.exchanger.Exchange(ctx, cfg, code, login.Pending.CodeVerifier)
	if err != nil {
		h.log.ErrorContext(ctx, "token exchange failed",
			slog.String("provider", provider), slog.Any("error", err))
		fail(http.StatusBadRequest, msgCallbackFailed)
		return
	}

	profile, err := h.profiles.Fetch(ctx, cfg, tokens.AccessToken)
	if err != nil {
		h.log.ErrorContext(ctx, "profile fetch failed",
			slog.String("provider", provider), slog.Any("error", err))
		fail(http.StatusBadRequest, msgCallbackFailed)
		return
	}

	account, err := h.users.UpsertFromOAuth(ctx, user.OAuthProfile{
		Provider:       provider,
		ProviderUserID: profile.ProviderUserID,
		Email:          profile.Email,
		Name:           profile.Name,
		AvatarURL:      profile.AvatarURL,
	})
	if err != nil {
		h.log.ErrorContext(ctx, "user upsert failed",
			slog.String("provider", provider), slog.Any("error", err))
		fail(http.StatusBadRequest, msgCallbackFailed)
		return
	}

	if err := h.sessions.Issue(w, account.ID, provider); err != nil {
		h.log.ErrorContext(ctx, "session issue failed",
			slog.String("provider", provider), slog.Any("error", err))
		fail(http.StatusBadRequest, msgCallbackFailed)
		return
	}

	h.states.Clear(w, provider)
	h.log.InfoContext(ctx, "login completed",
		slog.String("provider", provider),
		slog.String("user_id", account.ID))
	http.Redirect(w, r, h.resolver.AppBaseURL(), http.StatusFound)
}

// logout drops the session and sends the browser home.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	http.Redirect(w, r, h.resolver.AppBaseURL(), http.StatusFound)
}

// meResponse is the session readback shape.
type meResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
	Provider  string  `json:"provider"`
}

// me returns the logged-in user, or 401 without a valid session.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Read(r)
	if err != nil {
		httpx.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	account, err := h.users.FindByID(r.Context(), session.UserID)
	if err != nil {
		// Signed session for a row that no longer exists; treat as
		// logged out rather than erroring.
		h.sessions.Clear(w)
		httpx.Error(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	httpx.JSON(w, http.StatusOK, meResponse{
		ID:        account.ID,
		Email:     account.Email,
		Name:      account.Name,
		AvatarURL: account.AvatarURL,
		Provider:  session.Provider,
	})
}
