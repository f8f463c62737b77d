package storage

import (
	"context"

	"github.com/iudanet/teamchat/internal/models"
)

// MessageStorage defines the interface for message persistence.
type MessageStorage interface {
	// CreateMessage creates a new message.
	CreateMessage(ctx context.Context, message *models.Message) error

	// GetMessageByID retrieves a message by id, including soft-deleted ones.
	// Returns ErrMessageNotFound if no message exists.
	GetMessageByID(ctx context.Context, messageID string) (*models.Message, error)

	// ListChannelMessages returns up to limit non-deleted messages of the
	// (workspace, channel) pair in ascending creation order.
	ListChannelMessages(ctx context.Context, workspaceID, channelID string, limit int) ([]*models.Message, error)

	// UpdateMessage persists content, updated_at and deleted_at. The
	// workspace, channel, sender and created_at fields are immutable.
	// Returns ErrMessageNotFound if no message exists.
	UpdateMessage(ctx context.Context, message *models.Message) error
}

// AttachmentStorage defines the interface for attachment metadata
// persistence. Attachment bytes live in the blob store.
type AttachmentStorage interface {
	// CreateAttachment creates a new attachment metadata record.
	CreateAttachment(ctx context.Context, attachment *models.Attachment) error

	// GetAttachmentByID retrieves attachment metadata by id.
	// Returns ErrAttachmentNotFound if no attachment exists.
	GetAttachmentByID(ctx context.Context, attachmentID string) (*models.Attachment, error)
}
