package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/iudanet/teamchat/internal/models"
	"github.com/iudanet/teamchat/internal/server/storage"
	"github.com/iudanet/teamchat/internal/validation"
)

const (
	defaultMessagePageSize = 50
	maxMessagePageSize     = 200
)

// MessageService implements the message lifecycle inside a channel. Posting
// requires read access to the channel; editing and deleting are restricted
// to the sender.
type MessageService struct {
	channels    *ChannelService
	messages    storage.MessageStorage
	attachments storage.AttachmentStorage
	access      *AccessEvaluator
	logger      *slog.Logger

	now func() time.Time
}

func NewMessageService(
	channels *ChannelService,
	messages storage.MessageStorage,
	attachments storage.AttachmentStorage,
	access *AccessEvaluator,
	logger *slog.Logger,
) *MessageService {
	return &MessageService{
		channels:    channels,
		messages:    messages,
		attachments: attachments,
		access:      access,
		logger:      logger,
		now:         time.Now,
	}
}

// resolveReadableChannel loads the channel within its workspace scope and
// requires read access.
func (s *MessageService) resolveReadableChannel(ctx context.Context, userID, workspaceID, channelID string) (*models.Channel, error) {
	channel, err := s.channels.resolveChannel(ctx, workspaceID, channelID)
	if err != nil {
		return nil, err
	}

	flags, err := s.access.Evaluate(ctx, channel, userID)
	if err != nil {
		return nil, err
	}
	if !flags.CanRead {
		return nil, forbiddenError("no access to this channel")
	}
	return channel, nil
}

// List returns up to limit non-deleted messages, oldest first. Limit is
// clamped to [1, 200]; zero or negative means the default of 50.
func (s *MessageService) List(ctx context.Context, userID, workspaceID, channelID string, limit int) ([]*models.Message, error) {
	channel, err := s.resolveReadableChannel(ctx, userID, workspaceID, channelID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultMessagePageSize
	}
	if limit > maxMessagePageSize {
		limit = maxMessagePageSize
	}

	messages, err := s.messages.ListChannelMessages(ctx, channel.WorkspaceID, channel.ID, limit)
	if err != nil {
		return nil, internalError("failed to list messages", err)
	}
	return messages, nil
}

// Send posts a message to a channel. Content may be empty only when the
// message carries attachments; every attachment id must reference an
// uploaded attachment.
func (s *MessageService) Send(ctx context.Context, userID, workspaceID, channelID, content string, attachmentIDs []string) (*models.Message, error) {
	channel, err := s.resolveReadableChannel(ctx, userID, workspaceID, channelID)
	if err != nil {
		return nil, err
	}

	content, err = validation.MessageContent(content, len(attachmentIDs) > 0)
	if err != nil {
		return nil, validationError(err.Error())
	}
	for i, id := range attachmentIDs {
		id, err := validation.ObjectID(id, "attachment id")
		if err != nil {
			return nil, validationError(err.Error())
		}
		if _, err := s.attachments.GetAttachmentByID(ctx, id); err != nil {
			if errors.Is(err, storage.ErrAttachmentNotFound) {
				return nil, notFoundError("attachment not found")
			}
			return nil, internalError("failed to look up attachment", err)
		}
		attachmentIDs[i] = id
	}

	message := &models.Message{
		ID:            models.NewID(),
		WorkspaceID:   channel.WorkspaceID,
		ChannelID:     channel.ID,
		SenderID:      userID,
		Content:       content,
		AttachmentIDs: attachmentIDs,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.messages.CreateMessage(ctx, message); err != nil {
		return nil, internalError("failed to create message", err)
	}

	s.logger.Info("message sent", "message_id", message.ID, "channel_id", channel.ID, "user_id", userID)
	return message, nil
}

// resolveScopedMessage loads a message and enforces the full addressing
// scope: the message must belong to the channel, which must belong to the
// workspace, and the caller must be able to read the channel. Scope
// mismatches are not-found, never forbidden.
func (s *MessageService) resolveScopedMessage(ctx context.Context, userID, workspaceID, channelID, messageID string) (*models.Message, error) {
	channel, err := s.resolveReadableChannel(ctx, userID, workspaceID, channelID)
	if err != nil {
		return nil, err
	}

	messageID, err = validation.ObjectID(messageID, "message id")
	if err != nil {
		return nil, validationError(err.Error())
	}

	message, err := s.messages.GetMessageByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			return nil, notFoundError("message not found")
		}
		return nil, internalError("failed to get message", err)
	}
	if message.WorkspaceID != channel.WorkspaceID || message.ChannelID != channel.ID {
		return nil, notFoundError("message not found")
	}
	return message, nil
}

// Edit replaces a message's content. Sender only; a deleted message cannot
// be edited.
func (s *MessageService) Edit(ctx context.Context, userID, workspaceID, channelID, messageID, content string) (*models.Message, error) {
	message, err := s.resolveScopedMessage(ctx, userID, workspaceID, channelID, messageID)
	if err != nil {
		return nil, err
	}
	if message.SenderID != userID {
		return nil, forbiddenError("only the sender can edit a message")
	}
	if message.IsDeleted() {
		return nil, conflictError("message has been deleted")
	}

	content, err = validation.MessageContent(content, len(message.AttachmentIDs) > 0)
	if err != nil {
		return nil, validationError(err.Error())
	}

	now := s.now().UTC()
	message.Content = content
	message.UpdatedAt = &now

	if err := s.messages.UpdateMessage(ctx, message); err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			return nil, notFoundError("message not found")
		}
		return nil, internalError("failed to update message", err)
	}
	return message, nil
}

// Delete soft-deletes a message. Sender only; deleting an already-deleted
// message succeeds without changing anything.
func (s *MessageService) Delete(ctx context.Context, userID, workspaceID, channelID, messageID string) error {
	message, err := s.resolveScopedMessage(ctx, userID, workspaceID, channelID, messageID)
	if err != nil {
		return err
	}
	if message.SenderID != userID {
		return forbiddenError("only the sender can delete a message")
	}
	if message.IsDeleted() {
		return nil
	}

	now := s.now().UTC()
	message.DeletedAt = &now

	if err := s.messages.UpdateMessage(ctx, message); err != nil {
		if errors.Is(err, storage.ErrMessageNotFound) {
			return notFoundError("message not found")
		}
		return internalError("failed to delete message", err)
	}

	s.logger.Info("message deleted", "message_id", message.ID, "user_id", userID)
	return nil
}
