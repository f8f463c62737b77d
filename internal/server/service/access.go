package service

import (
	"context"

	"github.com/iudanet/teamchat/internal/models"
	"github.com/iudanet/teamchat/internal/server/storage"
)

// AccessFlags describes what a user may do with a channel. Posting rights
// always equal read rights; modification is evaluated separately because it
// belongs to the creator alone.
type AccessFlags struct {
	// Locked marks a private channel the user cannot read. Locked channels
	// still appear in listings so members can be invited by name.
	Locked  bool
	CanRead bool
	CanPost bool
}

// AccessEvaluator computes channel access from visibility, creatorship and
// membership.
type AccessEvaluator struct {
	members storage.MemberStorage
}

func NewAccessEvaluator(members storage.MemberStorage) *AccessEvaluator {
	return &AccessEvaluator{members: members}
}

// Evaluate returns the access flags of userID for the channel. A public
// channel is readable by everyone in the workspace; a private one only by its
// creator and explicit members.
func (a *AccessEvaluator) Evaluate(ctx context.Context, channel *models.Channel, userID string) (AccessFlags, error) {
	canRead := channel.IsPublic() || channel.CreatedBy == userID
	if !canRead {
		isMember, err := a.members.IsChannelMember(ctx, channel.ID, userID)
		if err != nil {
			return AccessFlags{}, internalError("failed to check channel membership", err)
		}
		canRead = isMember
	}

	return AccessFlags{
		Locked:  channel.IsPrivate() && !canRead,
		CanRead: canRead,
		CanPost: canRead,
	}, nil
}

// CanModify reports whether userID may change or delete the channel.
// Creator-only, regardless of visibility or membership.
func CanModify(channel *models.Channel, userID string) bool {
	return channel.CreatedBy == userID
}
