// Package api holds the request and response bodies of the HTTP surface.
// Shared so API clients can import the wire types without pulling in server
// internals.
package api

import "github.com/iudanet/teamchat/internal/models"

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest exchanges credentials for a bearer token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the raw bearer token. This is the only place the
// raw value ever appears.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// ChangePasswordRequest replaces the password of the authenticated user.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ForgotPasswordRequest starts the email reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest completes the email reset flow.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// WorkspaceRequest creates or updates a workspace.
type WorkspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ChannelRequest creates or updates a channel. Visibility is only honored
// on create.
type ChannelRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Visibility  string `json:"visibility,omitempty"`
}

// ChannelResponse pairs a channel with the caller's access flags.
type ChannelResponse struct {
	*models.Channel
	Locked  bool `json:"locked"`
	CanRead bool `json:"can_read"`
	CanPost bool `json:"can_post"`
}

// MemberRequest adds a user to a private channel.
type MemberRequest struct {
	UserID string `json:"user_id"`
}

// MessageRequest sends or edits a message.
type MessageRequest struct {
	Content       string   `json:"content"`
	AttachmentIDs []string `json:"attachment_ids,omitempty"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
