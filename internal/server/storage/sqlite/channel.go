package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/teamchat/internal/models"
	"github.com/iudanet/teamchat/internal/server/storage"
)

// CreateChannel creates a new channel
func (s *Storage) CreateChannel(ctx context.Context, channel *models.Channel) error {
	query := `
		INSERT INTO channels (id, workspace_id, name, description, visibility, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		channel.ID,
		channel.WorkspaceID,
		channel.Name,
		channel.Description,
		channel.Visibility,
		channel.CreatedBy,
		channel.CreatedAt,
		channel.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "channels.workspace_id, channels.name") {
			return storage.ErrDuplicateChannelName
		}
		return fmt.Errorf("failed to insert channel: %w", err)
	}

	return nil
}

// GetChannelByID retrieves a channel by id
func (s *Storage) GetChannelByID(ctx context.Context, channelID string) (*models.Channel, error) {
	query := `
		SELECT id, workspace_id, name, description, visibility, created_by, created_at, updated_at
		FROM channels
		WHERE id = ?
	`
	return s.scanChannel(s.db.QueryRowContext(ctx, query, channelID))
}

// GetChannelByName retrieves a channel by exact name within a workspace
func (s *Storage) GetChannelByName(ctx context.Context, workspaceID, name string) (*models.Channel, error) {
	query := `
		SELECT id, workspace_id, name, description, visibility, created_by, created_at, updated_at
		FROM channels
		WHERE workspace_id = ? AND name = ?
	`
	return s.scanChannel(s.db.QueryRowContext(ctx, query, workspaceID, name))
}

func (s *Storage) scanChannel(row *sql.Row) (*models.Channel, error) {
	channel := &models.Channel{}

	err := row.Scan(
		&channel.ID,
		&channel.WorkspaceID,
		&channel.Name,
		&channel.Description,
		&channel.Visibility,
		&channel.CreatedBy,
		&channel.CreatedAt,
		&channel.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrChannelNotFound
		}
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	return channel, nil
}

// ListWorkspaceChannels returns all channels of a workspace
func (s *Storage) ListWorkspaceChannels(ctx context.Context, workspaceID string) ([]*models.Channel, error) {
	query := `
		SELECT id, workspace_id, name, description, visibility, created_by, created_at, updated_at
		FROM channels
		WHERE workspace_id = ?
		ORDER BY created_at ASC
	`
	return s.queryChannels(ctx, query, workspaceID)
}

// ListPublicChannels returns the public channels of a workspace
func (s *Storage) ListPublicChannels(ctx context.Context, workspaceID string) ([]*models.Channel, error) {
	query := `
		SELECT id, workspace_id, name, description, visibility, created_by, created_at, updated_at
		FROM channels
		WHERE workspace_id = ? AND visibility = 'public'
		ORDER BY created_at ASC
	`
	return s.queryChannels(ctx, query, workspaceID)
}

func (s *Storage) queryChannels(ctx context.Context, query string, args ...any) ([]*models.Channel, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query channels: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var channels []*models.Channel

	for rows.Next() {
		channel := &models.Channel{}
		if err := rows.Scan(
			&channel.ID,
			&channel.WorkspaceID,
			&channel.Name,
			&channel.Description,
			&channel.Visibility,
			&channel.CreatedBy,
			&channel.CreatedAt,
			&channel.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		channels = append(channels, channel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return channels, nil
}

// UpdateChannel persists name, description and updated_at
func (s *Storage) UpdateChannel(ctx context.Context, channel *models.Channel) error {
	query := `UPDATE channels SET name = ?, description = ?, updated_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		channel.Name,
		channel.Description,
		channel.UpdatedAt,
		channel.ID,
	)

	if err != nil {
		if isUniqueViolation(err, "channels.workspace_id, channels.name") {
			return storage.ErrDuplicateChannelName
		}
		return fmt.Errorf("failed to update channel: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrChannelNotFound
	}

	return nil
}

// DeleteChannel deletes a channel by id
func (s *Storage) DeleteChannel(ctx context.Context, channelID string) error {
	query := `DELETE FROM channels WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, channelID)
	if err != nil {
		return fmt.Errorf("failed to delete channel: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrChannelNotFound
	}

	return nil
}

// AddChannelMember inserts a membership row
func (s *Storage) AddChannelMember(ctx context.Context, member *models.ChannelMember) error {
	query := `
		INSERT INTO channel_members (channel_id, user_id, added_by, created_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		member.ChannelID,
		member.UserID,
		member.AddedBy,
		member.CreatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "channel_members.channel_id, channel_members.user_id") {
			return storage.ErrDuplicateMember
		}
		return fmt.Errorf("failed to insert channel member: %w", err)
	}

	return nil
}

// RemoveChannelMember deletes a membership row and reports whether a row
// was actually deleted
func (s *Storage) RemoveChannelMember(ctx context.Context, channelID, userID string) (bool, error) {
	query := `DELETE FROM channel_members WHERE channel_id = ? AND user_id = ?`

	result, err := s.db.ExecContext(ctx, query, channelID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove channel member: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// IsChannelMember reports whether the user has an explicit membership
func (s *Storage) IsChannelMember(ctx context.Context, channelID, userID string) (bool, error) {
	query := `SELECT 1 FROM channel_members WHERE channel_id = ? AND user_id = ?`

	var one int
	err := s.db.QueryRowContext(ctx, query, channelID, userID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check channel membership: %w", err)
	}

	return true, nil
}
