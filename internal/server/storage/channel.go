package storage

import (
	"context"

	"github.com/iudanet/teamchat/internal/models"
)

// ChannelStorage defines the interface for channel persistence.
type ChannelStorage interface {
	// CreateChannel creates a new channel.
	// Returns ErrDuplicateChannelName on a unique-index violation of
	// (workspace_id, name).
	CreateChannel(ctx context.Context, channel *models.Channel) error

	// GetChannelByID retrieves a channel by id, regardless of workspace.
	// Workspace-scope checks belong to the service layer so cross-scope
	// addressing can be answered as not-found.
	// Returns ErrChannelNotFound if no channel exists.
	GetChannelByID(ctx context.Context, channelID string) (*models.Channel, error)

	// GetChannelByName retrieves a channel by exact name within a workspace.
	// Returns ErrChannelNotFound if no channel exists.
	GetChannelByName(ctx context.Context, workspaceID, name string) (*models.Channel, error)

	// ListWorkspaceChannels returns all channels of a workspace ordered by
	// creation time.
	ListWorkspaceChannels(ctx context.Context, workspaceID string) ([]*models.Channel, error)

	// ListPublicChannels returns the public channels of a workspace ordered
	// by creation time.
	ListPublicChannels(ctx context.Context, workspaceID string) ([]*models.Channel, error)

	// UpdateChannel persists name, description and updated_at.
	// Returns ErrChannelNotFound if no channel exists and
	// ErrDuplicateChannelName on a unique-index violation.
	UpdateChannel(ctx context.Context, channel *models.Channel) error

	// DeleteChannel deletes a channel by id.
	// Returns ErrChannelNotFound if no channel exists.
	DeleteChannel(ctx context.Context, channelID string) error
}

// MemberStorage defines the interface for channel membership persistence.
type MemberStorage interface {
	// AddChannelMember inserts a membership row.
	// Returns ErrDuplicateMember on a unique-index violation of
	// (channel_id, user_id).
	AddChannelMember(ctx context.Context, member *models.ChannelMember) error

	// RemoveChannelMember deletes a membership row and reports whether a
	// row was actually deleted. Removing a non-member is not an error.
	RemoveChannelMember(ctx context.Context, channelID, userID string) (bool, error)

	// IsChannelMember reports whether the user has an explicit membership.
	IsChannelMember(ctx context.Context, channelID, userID string) (bool, error)
}
