package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the persistence boundary for accounts. Implemented by
// PgxStore in production and by in-memory fakes in tests.
type Store interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByProviderIdentity(ctx context.Context, provider, providerUserID string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u User) (*User, error)
	UpdateProviderLink(ctx context.Context, id string, u User) (*User, error)
}

// PgxStore backs Store with postgres.
type PgxStore struct {
	pool *pgxpool.Pool
}

// NewPgxStore creates a store on the given pool.
func NewPgxStore(pool *pgxpool.Pool) *PgxStore {
	return &PgxStore{pool: pool}
}

const userColumns = `id, email, name, avatar_url, oauth_provider, oauth_provider_user_id, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.AvatarURL,
		&u.OAuthProvider,
		&u.OAuthProviderUserID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// FindByID looks up a user by primary key.
func (s *PgxStore) FindByID(ctx context.Context, id string) (*User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	)
	return scanUser(row)
}

// FindByProviderIdentity looks up a user by its linked provider
// identity (provider key plus the provider's stable user id).
func (s *PgxStore) FindByProviderIdentity(ctx context.Context, provider, providerUserID string) (*User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE oauth_provider = $1 AND oauth_provider_user_id = $2`,
		provider, providerUserID,
	)
	return scanUser(row)
}

// FindByEmail looks up a user by email.
func (s *PgxStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`,
		email,
	)
	return scanUser(row)
}

// Create inserts a new user. Returns ErrDuplicate when the email or
// provider identity is already taken, so callers can fall back to a
// lookup after losing an insert race.
func (s *PgxStore) Create(ctx context.Context, u User) (*User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, name, avatar_url, oauth_provider, oauth_provider_user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+userColumns,
		u.ID, u.Email, u.Name, u.AvatarURL, u.OAuthProvider, u.OAuthProviderUserID,
	)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return created, nil
}

// UpdateProviderLink rewrites the provider identity on an existing row
// and backfills profile fields. Used when a known email logs in through
// a different provider.
func (s *PgxStore) UpdateProviderLink(ctx context.Context, id string, u User) (*User, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE users
		 SET oauth_provider = $2,
		     oauth_provider_user_id = $3,
		     name = $4,
		     avatar_url = $5,
		     updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, u.OAuthProvider, u.OAuthProviderUserID, u.Name, u.AvatarURL,
	)
	return scanUser(row)
}
