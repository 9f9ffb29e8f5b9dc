package repository

import (
	"context"

	"github.com/gatherly/identity/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their (lowercased) email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// UpdatePasswordHash replaces the stored password hash for the user,
	// used for transparent parameter upgrades on login.
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}

// RefreshTokenRepository defines the interface for refresh token persistence
// operations. Only token hashes cross this boundary, never plaintext tokens.
type RefreshTokenRepository interface {
	// Create stores a new refresh token hash record.
	Create(ctx context.Context, token *domain.RefreshToken) error

	// GetByHash retrieves a refresh token record by its hash.
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)

	// Revoke marks the token revoked, but only if it is not revoked already.
	// It returns ErrNotFound when no live record matched, which is how a
	// losing concurrent refresh detects that the token was already consumed.
	Revoke(ctx context.Context, id string) error
}
