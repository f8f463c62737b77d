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

// ChannelView pairs a channel with the caller's access flags so listings can
// show locked private channels without exposing their contents.
type ChannelView struct {
	Channel *models.Channel
	Access  AccessFlags
}

// ChannelService implements channel CRUD and membership management within a
// workspace.
type ChannelService struct {
	workspaces storage.WorkspaceStorage
	channels   storage.ChannelStorage
	members    storage.MemberStorage
	users      storage.UserStorage
	access     *AccessEvaluator
	logger     *slog.Logger

	now func() time.Time
}

func NewChannelService(
	workspaces storage.WorkspaceStorage,
	channels storage.ChannelStorage,
	members storage.MemberStorage,
	users storage.UserStorage,
	access *AccessEvaluator,
	logger *slog.Logger,
) *ChannelService {
	return &ChannelService{
		workspaces: workspaces,
		channels:   channels,
		members:    members,
		users:      users,
		access:     access,
		logger:     logger,
		now:        time.Now,
	}
}

// resolveWorkspace loads a workspace or reports not-found.
func (s *ChannelService) resolveWorkspace(ctx context.Context, workspaceID string) (*models.Workspace, error) {
	workspaceID, err := validation.ObjectID(workspaceID, "workspace id")
	if err != nil {
		return nil, validationError(err.Error())
	}

	workspace, err := s.workspaces.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, storage.ErrWorkspaceNotFound) {
			return nil, notFoundError("workspace not found")
		}
		return nil, internalError("failed to get workspace", err)
	}
	return workspace, nil
}

// resolveChannel loads a channel and enforces workspace scope. A channel id
// that exists under a different workspace is answered exactly like a missing
// one so ids do not leak across workspaces.
func (s *ChannelService) resolveChannel(ctx context.Context, workspaceID, channelID string) (*models.Channel, error) {
	if _, err := s.resolveWorkspace(ctx, workspaceID); err != nil {
		return nil, err
	}

	channelID, err := validation.ObjectID(channelID, "channel id")
	if err != nil {
		return nil, validationError(err.Error())
	}

	channel, err := s.channels.GetChannelByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, storage.ErrChannelNotFound) {
			return nil, notFoundError("channel not found")
		}
		return nil, internalError("failed to get channel", err)
	}
	if channel.WorkspaceID != workspaceID {
		return nil, notFoundError("channel not found")
	}
	return channel, nil
}

// Create creates a channel in the workspace. Name is unique per workspace.
func (s *ChannelService) Create(ctx context.Context, userID, workspaceID, name, description, visibility string) (*models.Channel, error) {
	workspace, err := s.resolveWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	name, err = validation.ChannelName(name)
	if err != nil {
		return nil, validationError(err.Error())
	}
	description, err = validation.ChannelDescription(description)
	if err != nil {
		return nil, validationError(err.Error())
	}
	visibility, err = validation.ChannelVisibility(visibility)
	if err != nil {
		return nil, validationError(err.Error())
	}

	if _, err := s.channels.GetChannelByName(ctx, workspace.ID, name); err == nil {
		return nil, conflictError("channel name is already taken in this workspace")
	} else if !errors.Is(err, storage.ErrChannelNotFound) {
		return nil, internalError("failed to check channel name", err)
	}

	now := s.now().UTC()
	channel := &models.Channel{
		ID:          models.NewID(),
		WorkspaceID: workspace.ID,
		Name:        name,
		Description: description,
		Visibility:  visibility,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.channels.CreateChannel(ctx, channel); err != nil {
		if errors.Is(err, storage.ErrDuplicateChannelName) {
			return nil, conflictError("channel name is already taken in this workspace")
		}
		return nil, internalError("failed to create channel", err)
	}

	s.logger.Info("channel created", "channel_id", channel.ID, "workspace_id", workspace.ID, "user_id", userID)
	return channel, nil
}

// Get returns a channel with the caller's access flags. Readable channels
// come back in full; a locked private channel is still returned so its name
// can be shown.
func (s *ChannelService) Get(ctx context.Context, userID, workspaceID, channelID string) (*ChannelView, error) {
	channel, err := s.resolveChannel(ctx, workspaceID, channelID)
	if err != nil {
		return nil, err
	}

	flags, err := s.access.Evaluate(ctx, channel, userID)
	if err != nil {
		return nil, err
	}
	return &ChannelView{Channel: channel, Access: flags}, nil
}

// List returns all channels of the workspace with per-channel access flags.
func (s *ChannelService) List(ctx context.Context, userID, workspaceID string) ([]*ChannelView, error) {
	workspace, err := s.resolveWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	channels, err := s.channels.ListWorkspaceChannels(ctx, workspace.ID)
	if err != nil {
		return nil, internalError("failed to list channels", err)
	}

	views := make([]*ChannelView, 0, len(channels))
	for _, channel := range channels {
		flags, err := s.access.Evaluate(ctx, channel, userID)
		if err != nil {
			return nil, err
		}
		views = append(views, &ChannelView{Channel: channel, Access: flags})
	}
	return views, nil
}

// ListPublic returns only the public channels of the workspace.
func (s *ChannelService) ListPublic(ctx context.Context, workspaceID string) ([]*models.Channel, error) {
	workspace, err := s.resolveWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	channels, err := s.channels.ListPublicChannels(ctx, workspace.ID)
	if err != nil {
		return nil, internalError("failed to list public channels", err)
	}
	return channels, nil
}

// Update renames or re-describes a channel. Creator only; visibility is
// fixed at creation.
func (s *ChannelService) Update(ctx context.Context, userID, workspaceID, channelID, name, description string) (*models.Channel, error) {
	channel, err := s.resolveChannel(ctx, workspaceID, channelID)
	if err != nil {
		return nil, err
	}
	if !CanModify(channel, userID) {
		return nil, forbiddenError("only the channel creator can modify it")
	}

	name, err = validation.ChannelName(name)
	if err != nil {
		return nil, validationError(err.Error())
	}
	description, err = validation.ChannelDescription(description)
	if err != nil {
		return nil, validationError(err.Error())
	}

	if name != channel.Name {
		if _, err := s.channels.GetChannelByName(ctx, channel.WorkspaceID, name); err == nil {
			return nil, conflictError("channel name is already taken in this workspace")
		} else if !errors.Is(err, storage.ErrChannelNotFound) {
			return nil, internalError("failed to check channel name", err)
		}
	}

	channel.Name = name
	channel.Description = description
	channel.UpdatedAt = s.now().UTC()

	if err := s.channels.UpdateChannel(ctx, channel); err != nil {
		if errors.Is(err, storage.ErrDuplicateChannelName) {
			return nil, conflictError("channel name is already taken in this workspace")
		}
		if errors.Is(err, storage.ErrChannelNotFound) {
			return nil, notFoundError("channel not found")
		}
		return nil, internalError("failed to update channel", err)
	}
	return channel, nil
}

// Delete removes a channel. Creator only.
func (s *ChannelService) Delete(ctx context.Context, userID, workspaceID, channelID string) error {
	channel, err := s.resolveChannel(ctx, workspaceID, channelID)
	if err != nil {
		return err
	}
	if !CanModify(channel, userID) {
		return forbiddenError("only the channel creator can modify it")
	}

	if err := s.channels.DeleteChannel(ctx, channel.ID); err != nil {
		if errors.Is(err, storage.ErrChannelNotFound) {
			return notFoundError("channel not found")
		}
		return internalError("failed to delete channel", err)
	}

	s.logger.Info("channel deleted", "channel_id", channel.ID, "user_id", userID)
	return nil
}

// AddMember grants a user membership of a channel. Creator only; adding an
// existing member is a conflict.
func (s *ChannelService) AddMember(ctx context.Context, userID, workspaceID, channelID, memberID string) error {
	channel, err := s.resolveChannel(ctx, workspaceID, channelID)
	if err != nil {
		return err
	}
	if !CanModify(channel, userID) {
		return forbiddenError("only the channel creator can manage members")
	}

	memberID, err = validation.ObjectID(memberID, "user id")
	if err != nil {
		return validationError(err.Error())
	}
	if _, err := s.users.GetUserByID(ctx, memberID); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return notFoundError("user not found")
		}
		return internalError("failed to look up user", err)
	}

	member := &models.ChannelMember{
		ChannelID: channel.ID,
		UserID:    memberID,
		AddedBy:   userID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.members.AddChannelMember(ctx, member); err != nil {
		if errors.Is(err, storage.ErrDuplicateMember) {
			return conflictError("user is already a member of this channel")
		}
		return internalError("failed to add channel member", err)
	}

	s.logger.Info("channel member added", "channel_id", channel.ID, "member_id", memberID, "user_id", userID)
	return nil
}

// RemoveMember revokes a user's membership and reports whether a membership
// actually existed. Creator only.
func (s *ChannelService) RemoveMember(ctx context.Context, userID, workspaceID, channelID, memberID string) (bool, error) {
	channel, err := s.resolveChannel(ctx, workspaceID, channelID)
	if err != nil {
		return false, err
	}
	if !CanModify(channel, userID) {
		return false, forbiddenError("only the channel creator can manage members")
	}

	memberID, err = validation.ObjectID(memberID, "user id")
	if err != nil {
		return false, validationError(err.Error())
	}

	removed, err := s.members.RemoveChannelMember(ctx, channel.ID, memberID)
	if err != nil {
		return false, internalError("failed to remove channel member", err)
	}
	if removed {
		s.logger.Info("channel member removed", "channel_id", channel.ID, "member_id", memberID, "user_id", userID)
	}
	return removed, nil
}
