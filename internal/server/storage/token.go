package storage

import (
	"context"
	"time"

	"github.com/iudanet/teamchat/internal/models"
)

// TokenStorage defines the interface for session token persistence.
// Validity (revocation, expiry) is always re-checked at read time by the
// token ledger; the store only records state.
type TokenStorage interface {
	// CreateSessionToken stores a new session token record.
	CreateSessionToken(ctx context.Context, token *models.SessionToken) error

	// GetSessionTokenByHash retrieves a session token by its SHA-256 hash.
	// Returns ErrTokenNotFound if no row matches.
	GetSessionTokenByHash(ctx context.Context, tokenHash string) (*models.SessionToken, error)

	// TouchSessionToken updates last_used_at. Best-effort from the caller's
	// point of view: a failure must not fail token resolution.
	TouchSessionToken(ctx context.Context, tokenID string, usedAt time.Time) error

	// RevokeSessionTokenByHash marks a non-revoked token revoked.
	// Idempotent: a no-op when the token is absent or already revoked.
	RevokeSessionTokenByHash(ctx context.Context, tokenHash string, revokedAt time.Time) error

	// RevokeUserSessionTokens marks all of the user's non-revoked tokens
	// revoked and returns the number of rows affected.
	RevokeUserSessionTokens(ctx context.Context, userID string, revokedAt time.Time) (int, error)

	// DeleteExpiredSessionTokens physically removes rows past their expiry.
	// A cleanup optimization only; expired tokens already fail validation.
	DeleteExpiredSessionTokens(ctx context.Context, now time.Time) (int, error)
}

// ResetTokenStorage defines the interface for password-reset token
// persistence. Reset tokens are single-use: used_at must be set in a single
// conditional update to avoid a double-use race.
type ResetTokenStorage interface {
	// CreateResetToken stores a new password-reset token record.
	CreateResetToken(ctx context.Context, token *models.PasswordResetToken) error

	// GetResetTokenByHash retrieves a reset token by its SHA-256 hash.
	// Returns ErrTokenNotFound if no row matches.
	GetResetTokenByHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error)

	// MarkResetTokenUsedByHash sets used_at where it is still null.
	// Idempotent: a no-op when the token is absent or already used.
	MarkResetTokenUsedByHash(ctx context.Context, tokenHash string, usedAt time.Time) error

	// MarkUserResetTokensUsed marks all of the user's unused reset tokens
	// used and returns the number of rows affected. Keeps the
	// at-most-one-live-reset-token invariant when a new token is issued.
	MarkUserResetTokensUsed(ctx context.Context, userID string, usedAt time.Time) (int, error)
}
