package storage

import "errors"

// Common storage errors. Absence is reported via these sentinels so callers
// can distinguish "not there" from "store failed" with errors.Is.
var (
	// ErrUserNotFound indicates that the user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail indicates a unique-index violation on users.email
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrTokenNotFound indicates that no token row matched the hash
	ErrTokenNotFound = errors.New("token not found")

	// ErrWorkspaceNotFound indicates that the workspace was not found
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrDuplicateWorkspaceName indicates a unique-index violation on workspaces.name
	ErrDuplicateWorkspaceName = errors.New("workspace name already exists")

	// ErrChannelNotFound indicates that the channel was not found
	ErrChannelNotFound = errors.New("channel not found")

	// ErrDuplicateChannelName indicates a unique-index violation on (workspace_id, name)
	ErrDuplicateChannelName = errors.New("channel name already exists")

	// ErrDuplicateMember indicates a unique-index violation on (channel_id, user_id)
	ErrDuplicateMember = errors.New("user is already a member")

	// ErrMessageNotFound indicates that the message was not found
	ErrMessageNotFound = errors.New("message not found")

	// ErrAttachmentNotFound indicates that the attachment was not found
	ErrAttachmentNotFound = errors.New("attachment not found")
)
