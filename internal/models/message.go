package models

import "time"

// Message belongs to exactly one (workspace, channel) pair. DeletedAt marks
// a soft delete: the record is preserved but flagged deleted in responses
// and excluded from listings.
type Message struct {
	ID            string     `json:"id"`
	WorkspaceID   string     `json:"workspace_id"`
	ChannelID     string     `json:"channel_id"`
	SenderID      string     `json:"sender_id"`
	Content       string     `json:"content"`
	AttachmentIDs []string   `json:"attachment_ids"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

// IsDeleted reports whether the message has been soft-deleted.
func (m *Message) IsDeleted() bool {
	return m.DeletedAt != nil
}
