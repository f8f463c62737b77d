package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iudanet/teamchat/internal/models"
	"github.com/iudanet/teamchat/internal/server/mail"
	"github.com/iudanet/teamchat/internal/server/storage"
	"github.com/iudanet/teamchat/internal/validation"
)

const resetMailSubject = "Reset your password"

// resetMailBodies renders the reset mail. The expiry wording follows the
// configured reset TTL.
func resetMailBodies(name, link string, ttl time.Duration) (textBody, htmlBody string) {
	expiry := resetExpiryWording(ttl)

	textBody = fmt.Sprintf(
		"Hello %s,\n\nA password reset was requested for your account. "+
			"Follow the link below within %s to choose a new password:\n\n%s\n\n"+
			"If you did not request this, you can ignore this message.\n",
		name, expiry, link,
	)

	htmlBody = fmt.Sprintf(
		`<html><body style="font-family: sans-serif; color: #222;">`+
			`<p>Hello %s,</p>`+
			`<p>A password reset was requested for your account. `+
			`The link below is valid for %s.</p>`+
			`<p><a href="%s" style="display: inline-block; padding: 10px 18px; `+
			`background-color: #2d6cdf; color: #ffffff; text-decoration: none; `+
			`border-radius: 4px;">Choose a new password</a></p>`+
			`<p>If the button does not work, copy this link into your browser:<br>%s</p>`+
			`<p>If you did not request this, you can ignore this message.</p>`+
			`</body></html>`,
		html.EscapeString(name), expiry, link, link,
	)

	return textBody, htmlBody
}

// resetExpiryWording renders a TTL as "N minutes" or "N hours" for the mail
// text.
func resetExpiryWording(ttl time.Duration) string {
	if ttl < time.Hour {
		minutes := int(ttl.Minutes())
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	hours := int(ttl.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}

// AuthService implements registration, login and the password lifecycle.
type AuthService struct {
	users    storage.UserStorage
	tokens   *TokenLedger
	mailer   mail.Mailer
	logger   *slog.Logger
	resetURL string

	now func() time.Time
}

func NewAuthService(
	users storage.UserStorage,
	tokens *TokenLedger,
	mailer mail.Mailer,
	resetURL string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		mailer:   mailer,
		logger:   logger,
		resetURL: resetURL,
		now:      time.Now,
	}
}

// Register creates a new account. Email is canonicalized to lowercase; a
// duplicate email yields a conflict whether caught by the pre-check or the
// unique index.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	email, err := validation.Email(email)
	if err != nil {
		return nil, validationError(err.Error())
	}
	if err := validation.Password(password); err != nil {
		return nil, validationError(err.Error())
	}
	name, err = validation.PersonName(name)
	if err != nil {
		return nil, validationError(err.Error())
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, conflictError("email is already registered")
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, internalError("failed to check email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError("failed to hash password", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           models.NewID(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, conflictError("email is already registered")
		}
		return nil, internalError("failed to create user", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password produce the same error so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string, meta RequestMeta) (string, *models.User, error) {
	email, err := validation.Email(email)
	if err != nil {
		return "", nil, unauthorizedError("invalid email or password")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return "", nil, unauthorizedError("invalid email or password")
		}
		return "", nil, internalError("failed to look up user", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, unauthorizedError("invalid email or password")
	}

	raw, _, err := s.tokens.IssueSessionToken(ctx, user.ID, meta)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return raw, user, nil
}

// Logout revokes the presented session token. Always succeeds for a caller
// who authenticated with that token.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	return s.tokens.RevokeSessionToken(ctx, rawToken)
}

// Authenticate resolves a raw bearer token to its user. Used by the HTTP
// auth middleware.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (*models.User, error) {
	userID, ok, err := s.tokens.ResolveSessionToken(ctx, rawToken)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, unauthorizedError("invalid or expired token")
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, unauthorizedError("invalid or expired token")
		}
		return nil, internalError("failed to load user", err)
	}
	return user, nil
}

// RequestPasswordReset issues a reset token and mails the reset link. The
// operation reports success whether or not the email is registered, and a
// mail delivery failure is logged but does not fail the request or void the
// token.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string, meta RequestMeta) error {
	email, err := validation.Email(email)
	if err != nil {
		return validationError(err.Error())
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.logger.Info("password reset requested for unknown email")
			return nil
		}
		return internalError("failed to look up user", err)
	}

	raw, _, err := s.tokens.IssueResetToken(ctx, user.ID, meta)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s?token=%s", s.resetURL, raw)
	textBody, htmlBody := resetMailBodies(user.Name, link, s.tokens.resetTTL)
	if err := s.mailer.Send(ctx, user.Email, resetMailSubject, textBody, htmlBody); err != nil {
		s.logger.Error("failed to send reset mail", "user_id", user.ID, "error", err)
	}

	s.logger.Info("password reset issued", "user_id", user.ID)
	return nil
}

// ResetPassword sets a new password from a reset token, consumes the token,
// voids sibling reset tokens and revokes every live session of the user.
func (s *AuthService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if err := validation.Password(newPassword); err != nil {
		return validationError(err.Error())
	}

	userID, ok, err := s.tokens.ResolveResetToken(ctx, rawToken)
	if err != nil {
		return err
	}
	if !ok {
		return invalidOrExpiredError("invalid or expired reset token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return internalError("failed to hash password", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, string(hash), s.now().UTC()); err != nil {
		return internalError("failed to update password", err)
	}

	if err := s.tokens.MarkResetTokenUsed(ctx, rawToken); err != nil {
		return err
	}
	if err := s.tokens.InvalidateUserResetTokens(ctx, userID); err != nil {
		return err
	}

	revoked, err := s.tokens.RevokeAllSessionTokens(ctx, userID)
	if err != nil {
		return err
	}

	s.logger.Info("password reset completed", "user_id", userID, "sessions_revoked", revoked)
	return nil
}

// ChangePassword replaces the password of an authenticated user after
// verifying the current one. Existing sessions stay valid.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if err := validation.Password(newPassword); err != nil {
		return validationError(err.Error())
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return unauthorizedError("invalid or expired token")
		}
		return internalError("failed to load user", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return unauthorizedError("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return internalError("failed to hash password", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, string(hash), s.now().UTC()); err != nil {
		return internalError("failed to update password", err)
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}
