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

// CreateResetToken stores a new password-reset token record
func (s *Storage) CreateResetToken(ctx context.Context, token *models.PasswordResetToken) error {
	query := `
		INSERT INTO password_resets (id, user_id, token_hash, created_at, expires_at, used_at, ip, user_agent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.CreatedAt,
		token.ExpiresAt,
		token.UsedAt,
		token.IP,
		token.UserAgent,
	)

	if err != nil {
		return fmt.Errorf("failed to insert reset token: %w", err)
	}

	return nil
}

// GetResetTokenByHash retrieves a reset token by its hash
func (s *Storage) GetResetTokenByHash(ctx context.Context, tokenHash string) (*models.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, token_hash, created_at, expires_at, used_at, ip, user_agent
		FROM password_resets
		WHERE token_hash = ?
	`

	token := &models.PasswordResetToken{}
	var usedAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.CreatedAt,
		&token.ExpiresAt,
		&usedAt,
		&token.IP,
		&token.UserAgent,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}

	if usedAt.Valid {
		token.UsedAt = &usedAt.Time
	}

	return token, nil
}

// MarkResetTokenUsedByHash sets used_at where it is still null. The single
// conditional update is the guard against a double-use race.
func (s *Storage) MarkResetTokenUsedByHash(ctx context.Context, tokenHash string, usedAt time.Time) error {
	query := `UPDATE password_resets SET used_at = ? WHERE token_hash = ? AND used_at IS NULL`

	if _, err := s.db.ExecContext(ctx, query, usedAt, tokenHash); err != nil {
		return fmt.Errorf("failed to mark reset token used: %w", err)
	}

	return nil
}

// MarkUserResetTokensUsed marks all of the user's unused reset tokens used
func (s *Storage) MarkUserResetTokensUsed(ctx context.Context, userID string, usedAt time.Time) (int, error) {
	query := `UPDATE password_resets SET used_at = ? WHERE user_id = ? AND used_at IS NULL`

	result, err := s.db.ExecContext(ctx, query, usedAt, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark user reset tokens used: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}
