// Package user persists accounts created through OAuth logins and
// reconciles provider profiles with existing rows.
package user

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user: not found")

	// ErrDuplicate is returned when an insert violates the email or
	// provider-identity uniqueness constraint.
	ErrDuplicate = errors.New("user: duplicate")

	// ErrMissingEmail is returned when a provider profile carries no
	// email address. Accounts are keyed by email; a profile without one
	// cannot be upserted.
	ErrMissingEmail = errors.New("user: provider profile has no email")
)

// User is one account row. Name and AvatarURL are nullable; a linked
// provider may not supply either.
type User struct {
	ID                  string
	Email               string
	Name                *string
	AvatarURL           *string
	OAuthProvider       string
	OAuthProviderUserID string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
