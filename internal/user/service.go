package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// OAuthProfile is the normalized identity handed over by the auth flow.
type OAuthProfile struct {
	Provider       string
	ProviderUserID string
	Email          string
	Name           string
	AvatarURL      string
}

// Service reconciles provider profiles with stored accounts.
type Service struct {
	store Store
	log   *slog.Logger
}

// NewService creates a service. A nil logger discards output.
func NewService(store Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{store: store, log: log}
}

// FindByID returns the account with the given id, or ErrNotFound.
func (s *Service) FindByID(ctx context.Context, id string) (*User, error) {
	return s.store.FindByID(ctx, id)
}

// UpsertFromOAuth resolves a provider profile into exactly one account
// row, in precedence order:
//
//  1. A row already linked to this provider identity wins; repeated
//     logins are idempotent.
//  2. Otherwise a row with the same email is re-linked to this
//     identity, backfilling name and avatar only where the profile has
//     non-empty values. Same person, different provider; never a
//     second row.
//  3. Otherwise a new row is created. Losing a concurrent-create race
//     degrades to the lookup path once instead of failing the login.
//
// Profiles without an email fail with ErrMissingEmail before any write.
func (s *Service) UpsertFromOAuth(ctx context.Context, p OAuthProfile) (*User, error) {
	if p.Email == "" {
		return nil, ErrMissingEmail
	}

	existing, err := s.store.FindByProviderIdentity(ctx, p.Provider, p.ProviderUserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("lookup by provider identity: %w", err)
	}

	byEmail, err := s.store.FindByEmail(ctx, p.Email)
	if err == nil {
		return s.link(ctx, byEmail, p)
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("lookup by email: %w", err)
	}

	created, err := s.store.Create(ctx, User{
		Email:               p.Email,
		Name:                optional(p.Name),
		AvatarURL:           optional(p.AvatarURL),
		OAuthProvider:       p.Provider,
		OAuthProviderUserID: p.ProviderUserID,
	})
	if err == nil {
		s.log.InfoContext(ctx, "user created from oauth login",
			slog.String("user_id", created.ID),
			slog.String("provider", p.Provider))
		return created, nil
	}
	if !errors.Is(err, ErrDuplicate) {
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Lost an insert race with a concurrent login for the same person.
	// The winner's row is authoritative; retry the lookups once.
	if existing, lerr := s.store.FindByProviderIdentity(ctx, p.Provider, p.ProviderUserID); lerr == nil {
		return existing, nil
	}
	byEmail, err = s.store.FindByEmail(ctx, p.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup after duplicate insert: %w", err)
	}
	return s.link(ctx, byEmail, p)
}

// link rewrites the provider identity on an existing row, backfilling
// profile fields only where the incoming profile has values. Existing
// data is never overwritten with blanks.
func (s *Service) link(ctx context.Context, existing *User, p OAuthProfile) (*User, error) {
	update := *existing
	update.OAuthProvider = p.Provider
	update.OAuthProviderUserID = p.ProviderUserID
	if p.Name != "" {
		update.Name = optional(p.Name)
	}
	if p.AvatarURL != "" {
		update.AvatarURL = optional(p.AvatarURL)
	}

	linked, err := s.store.UpdateProviderLink(ctx, existing.ID, update)
	if err != nil {
		return nil, fmt.Errorf("link provider identity: %w", err)
	}

	s.log.InfoContext(ctx, "provider identity linked to existing account",
		slog.String("user_id", linked.ID),
		slog.String("provider", p.Provider))
	return linked, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
