package models

import "time"

// Channel visibility values.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Channel is a named conversation scope within a workspace. Name is unique
// within its workspace. Public channels are readable by any authenticated
// user; private channels only by the creator and explicit members.
type Channel struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Visibility  string    `json:"visibility"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsPublic reports whether the channel is publicly visible.
func (c *Channel) IsPublic() bool {
	return c.Visibility == VisibilityPublic
}

// IsPrivate reports whether the channel requires membership to read.
func (c *Channel) IsPrivate() bool {
	return c.Visibility == VisibilityPrivate
}

// ChannelMember grants a non-creator read/post access to a private channel.
// The (channel, user) pair is unique.
type ChannelMember struct {
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	AddedBy   string    `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`
}
