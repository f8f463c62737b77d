package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/teamchat/internal/models"
	"github.com/iudanet/teamchat/internal/server/storage"
)

// CreateSessionToken stores a new session token record
func (s *Storage) CreateSessionToken(ctx context.Context, token *models.SessionToken) error {
	query := `
		INSERT INTO auth_tokens (id, user_id, token_hash, created_at, expires_at, revoked_at, last_used_at, ip, user_agent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.CreatedAt,
		token.ExpiresAt,
		token.RevokedAt,
		token.LastUsedAt,
		token.IP,
		token.UserAgent,
	)

	if err != nil {
		return fmt.Errorf("failed to insert session token: %w", err)
	}

	return nil
}

// GetSessionTokenByHash retrieves a session token by its hash
func (s *Storage) GetSessionTokenByHash(ctx context.Context, tokenHash string) (*models.SessionToken, error) {
	query := `
		SELECT id, user_id, token_hash, created_at, expires_at, revoked_at, last_used_at, ip, user_agent
		FROM auth_tokens
		WHERE token_hash = ?
	`

	token := &models.SessionToken{}
	var revokedAt, lastUsedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.CreatedAt,
		&token.ExpiresAt,
		&revokedAt,
		&lastUsedAt,
		&token.IP,
		&token.UserAgent,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get session token: %w", err)
	}

	if revokedAt.Valid {
		token.RevokedAt = &revokedAt.Time
	}
	if lastUsedAt.Valid {
		token.LastUsedAt = &lastUsedAt.Time
	}

	return token, nil
}

// TouchSessionToken updates last_used_at
func (s *Storage) TouchSessionToken(ctx context.Context, tokenID string, usedAt time.Time) error {
	query := `UPDATE auth_tokens SET last_used_at = ? WHERE id = ?`

	if _, err := s.db.ExecContext(ctx, query, usedAt, tokenID); err != nil {
		return fmt.Errorf("failed to touch session token: %w", err)
	}

	return nil
}

// RevokeSessionTokenByHash marks a non-revoked token revoked. Idempotent:
// the conditional update is a no-op for absent or already-revoked tokens.
func (s *Storage) RevokeSessionTokenByHash(ctx context.Context, tokenHash string, revokedAt time.Time) error {
	query := `UPDATE auth_tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL`

	if _, err := s.db.ExecContext(ctx, query, revokedAt, tokenHash); err != nil {
		return fmt.Errorf("failed to revoke session token: %w", err)
	}

	return nil
}

// RevokeUserSessionTokens marks all of the user's non-revoked tokens revoked
func (s *Storage) RevokeUserSessionTokens(ctx context.Context, userID string, revokedAt time.Time) (int, error) {
	query := `UPDATE auth_tokens SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`

	result, err := s.db.ExecContext(ctx, query, revokedAt, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke user session tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

// DeleteExpiredSessionTokens removes all expired session token rows
func (s *Storage) DeleteExpiredSessionTokens(ctx context.Context, now time.Time) (int, error) {
	query := `DELETE FROM auth_tokens WHERE expires_at < ?`

	result, err := s.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}
