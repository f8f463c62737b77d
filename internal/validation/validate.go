// Package validation checks externally supplied input against the field
// constraints of the data model. Validators return the canonical form of the
// value (trimmed, emails lowercased) along with any error.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/iudanet/teamchat/internal/models"
)

// ChannelNamePattern allows words of letters, digits, underscores and
// hyphens separated by single spaces.
var ChannelNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+(?: [a-zA-Z0-9_-]+)*$`)

var (
	hasUpper = regexp.MustCompile(`[A-Z]`)
	hasLower = regexp.MustCompile(`[a-z]`)
	hasDigit = regexp.MustCompile(`[0-9]`)
)

// Email canonicalizes and validates an email address. Emails are lowercased
// so the unique index operates on canonical form.
func Email(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fmt.Errorf("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("invalid email")
	}
	return email, nil
}

// Password enforces the minimum password policy: at least 8 characters with
// upper case, lower case and a digit.
func Password(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if !hasUpper.MatchString(password) || !hasLower.MatchString(password) || !hasDigit.MatchString(password) {
		return fmt.Errorf("password must include upper, lower, and number")
	}
	return nil
}

// PersonName validates a display name (2-80 characters).
func PersonName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 80 {
		return "", fmt.Errorf("name must be between 2 and 80 characters")
	}
	return name, nil
}

// WorkspaceName validates a workspace name (2-80 characters).
func WorkspaceName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 80 {
		return "", fmt.Errorf("workspace name must be between 2 and 80 characters")
	}
	return name, nil
}

// WorkspaceDescription validates a workspace description (2-1000 characters).
func WorkspaceDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if n := utf8.RuneCountInString(description); n < 2 || n > 1000 {
		return "", fmt.Errorf("workspace description must be between 2 and 1000 characters")
	}
	return description, nil
}

// ChannelName validates a channel name (2-50 characters, letters, numbers,
// spaces, underscores and hyphens).
func ChannelName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 50 {
		return "", fmt.Errorf("channel name must be between 2 and 50 characters")
	}
	if !ChannelNamePattern.MatchString(name) {
		return "", fmt.Errorf("channel name can only contain letters, numbers, spaces, underscores, and hyphens")
	}
	return name, nil
}

// ChannelDescription validates a channel description. Optional: empty is
// valid, otherwise at most 500 characters.
func ChannelDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if utf8.RuneCountInString(description) > 500 {
		return "", fmt.Errorf("channel description must not exceed 500 characters")
	}
	return description, nil
}

// ChannelVisibility canonicalizes and validates channel visibility.
func ChannelVisibility(visibility string) (string, error) {
	visibility = strings.ToLower(strings.TrimSpace(visibility))
	if visibility != models.VisibilityPublic && visibility != models.VisibilityPrivate {
		return "", fmt.Errorf("channel visibility must be %q or %q", models.VisibilityPublic, models.VisibilityPrivate)
	}
	return visibility, nil
}

// MessageContent validates message text (up to 1000 characters). Empty
// content is allowed only when the message carries attachments.
func MessageContent(content string, hasAttachments bool) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" && !hasAttachments {
		return "", fmt.Errorf("message content is required")
	}
	if utf8.RuneCountInString(content) > 1000 {
		return "", fmt.Errorf("message content must not exceed 1000 characters")
	}
	return content, nil
}

// ObjectID validates the shape of an externally supplied entity id.
func ObjectID(value, field string) (string, error) {
	value = strings.TrimSpace(value)
	if !models.IsValidID(value) {
		return "", fmt.Errorf("invalid field: %s", field)
	}
	return value, nil
}
