package models

import "time"

// User represents a registered account. Email is globally unique and stored
// lowercased; only the bcrypt hash of the password is ever persisted.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
