package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iudanet/teamchat/internal/models"
	"github.com/iudanet/teamchat/internal/server/storage"
)

// Attachment references are stored as a JSON array in a single column,
// mirroring the embedded-array shape of the original document store.
func encodeAttachmentIDs(ids []string) (string, error) {
	if len(ids) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode attachment ids: %w", err)
	}
	return string(raw), nil
}

func decodeAttachmentIDs(raw string) ([]string, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode attachment ids: %w", err)
	}
	return ids, nil
}

// CreateMessage creates a new message
func (s *Storage) CreateMessage(ctx context.Context, message *models.Message) error {
	attachmentIDs, err := encodeAttachmentIDs(message.AttachmentIDs)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO messages (id, workspace_id, channel_id, sender_id, content, attachment_ids, created_at, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		message.ID,
		message.WorkspaceID,
		message.ChannelID,
		message.SenderID,
		message.Content,
		attachmentIDs,
		message.CreatedAt,
		message.UpdatedAt,
		message.DeletedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}

	return nil
}

// GetMessageByID retrieves a message by id, including soft-deleted ones
func (s *Storage) GetMessageByID(ctx context.Context, messageID string) (*models.Message, error) {
	query := `
		SELECT id, workspace_id, channel_id, sender_id, content, attachment_ids, created_at, updated_at, deleted_at
		FROM messages
		WHERE id = ?
	`

	message, err := scanMessage(s.db.QueryRowContext(ctx, query, messageID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return message, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*models.Message, error) {
	message := &models.Message{}
	var attachmentIDs string
	var updatedAt, deletedAt sql.NullTime

	err := row.Scan(
		&message.ID,
		&message.WorkspaceID,
		&message.ChannelID,
		&message.SenderID,
		&message.Content,
		&attachmentIDs,
		&message.CreatedAt,
		&updatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if updatedAt.Valid {
		message.UpdatedAt = &updatedAt.Time
	}
	if deletedAt.Valid {
		message.DeletedAt = &deletedAt.Time
	}

	ids, err := decodeAttachmentIDs(attachmentIDs)
	if err != nil {
		return nil, err
	}
	message.AttachmentIDs = ids

	return message, nil
}

// ListChannelMessages returns up to limit non-deleted messages of the
// (workspace, channel) pair in ascending creation order
func (s *Storage) ListChannelMessages(ctx context.Context, workspaceID, channelID string, limit int) ([]*models.Message, error) {
	query := `
		SELECT id, workspace_id, channel_id, sender_id, content, attachment_ids, created_at, updated_at, deleted_at
		FROM messages
		WHERE workspace_id = ? AND channel_id = ? AND deleted_at IS NULL
		ORDER BY created_at ASC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, workspaceID, channelID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var messages []*models.Message

	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return messages, nil
}

// UpdateMessage persists content, updated_at and deleted_at
func (s *Storage) UpdateMessage(ctx context.Context, message *models.Message) error {
	query := `UPDATE messages SET content = ?, updated_at = ?, deleted_at = ? WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		message.Content,
		message.UpdatedAt,
		message.DeletedAt,
		message.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return storage.ErrMessageNotFound
	}

	return nil
}

// CreateAttachment creates a new attachment metadata record
func (s *Storage) CreateAttachment(ctx context.Context, attachment *models.Attachment) error {
	query := `
		INSERT INTO attachments (id, filename, content_type, size, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		attachment.ID,
		attachment.FileName,
		attachment.ContentType,
		attachment.Size,
		attachment.UploadedBy,
		attachment.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert attachment: %w", err)
	}

	return nil
}

// GetAttachmentByID retrieves attachment metadata by id
func (s *Storage) GetAttachmentByID(ctx context.Context, attachmentID string) (*models.Attachment, error) {
	query := `
		SELECT id, filename, content_type, size, uploaded_by, created_at
		FROM attachments
		WHERE id = ?
	`

	attachment := &models.Attachment{}

	err := s.db.QueryRowContext(ctx, query, attachmentID).Scan(
		&attachment.ID,
		&attachment.FileName,
		&attachment.ContentType,
		&attachment.Size,
		&attachment.UploadedBy,
		&attachment.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}

	return attachment, nil
}
