package storage

import (
	"context"
	"time"

	"github.com/iudanet/teamchat/internal/models"
)

// UserStorage defines the interface for user persistence.
type UserStorage interface {
	// CreateUser creates a new user.
	// Returns ErrDuplicateEmail on a unique-index violation; the index is
	// the authoritative uniqueness guard, pre-checks are an optimization.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by canonical (lowercased) email.
	// Returns ErrUserNotFound if no user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by id.
	// Returns ErrUserNotFound if no user exists.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// UpdatePasswordHash replaces the stored password hash.
	// Returns ErrUserNotFound if no user exists.
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string, updatedAt time.Time) error
}
