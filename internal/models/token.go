package models

import "time"

// SessionToken is the stored record of an opaque bearer token. Only the
// SHA-256 hash of the raw value is kept; the raw token leaves the server
// exactly once, in the login response.
//
// A session token is valid iff RevokedAt is nil and the clock is before
// ExpiresAt. Multiple concurrent valid tokens per user are allowed.
type SessionToken struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	TokenHash  string     `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	ExpiresAt  time.Time  `json:"expires_at"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	IP         string     `json:"ip,omitempty"`
	UserAgent  string     `json:"user_agent,omitempty"`
}

// PasswordResetToken uses the same hashing scheme as SessionToken but is
// strictly single-use: validity additionally requires UsedAt to be nil.
// Issuing a new reset token marks all prior unused ones used, so at most one
// live reset token exists per user.
type PasswordResetToken struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	TokenHash string     `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	IP        string     `json:"ip,omitempty"`
	UserAgent string     `json:"user_agent,omitempty"`
}
