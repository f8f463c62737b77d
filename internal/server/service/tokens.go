package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/teamchat/internal/models"
	"github.com/iudanet/teamchat/internal/server/storage"
)

const (
	// tokenBytes raw tokens are 32 random bytes rendered as 64 hex chars.
	tokenBytes = 32

	// minRawTokenLength lets resolution reject garbage before hashing.
	minRawTokenLength = 32

	// minTokenTTL guards against a misconfigured near-zero lifetime.
	minTokenTTL = time.Minute
)

// TokenLedger issues and resolves opaque bearer tokens. Raw token values are
// never persisted; the ledger stores SHA-256 hashes and re-derives the hash
// on every lookup.
type TokenLedger struct {
	sessions storage.TokenStorage
	resets   storage.ResetTokenStorage
	logger   *slog.Logger

	sessionTTL time.Duration
	resetTTL   time.Duration

	now func() time.Time
}

// RequestMeta carries per-request client metadata recorded alongside issued
// tokens.
type RequestMeta struct {
	IP        string
	UserAgent string
}

func NewTokenLedger(
	sessions storage.TokenStorage,
	resets storage.ResetTokenStorage,
	sessionTTL, resetTTL time.Duration,
	logger *slog.Logger,
) (*TokenLedger, error) {
	if sessionTTL < minTokenTTL {
		return nil, newError(KindConfiguration, "session token TTL below one minute")
	}
	if resetTTL < minTokenTTL {
		return nil, newError(KindConfiguration, "reset token TTL below one minute")
	}

	return &TokenLedger{
		sessions:   sessions,
		resets:     resets,
		logger:     logger,
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
		now:        time.Now,
	}, nil
}

// newRawToken returns a fresh raw token: 32 random bytes as lowercase hex.
func newRawToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// hashToken derives the stored form of a raw token.
func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// IssueSessionToken creates a session token for the user and returns the raw
// value. This is the only place the raw value exists server-side.
func (l *TokenLedger) IssueSessionToken(ctx context.Context, userID string, meta RequestMeta) (string, *models.SessionToken, error) {
	raw, err := newRawToken()
	if err != nil {
		return "", nil, internalError("failed to generate session token", err)
	}

	now := l.now().UTC()
	token := &models.SessionToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: hashToken(raw),
		CreatedAt: now,
		ExpiresAt: now.Add(l.sessionTTL),
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	}
	if err := l.sessions.CreateSessionToken(ctx, token); err != nil {
		return "", nil, internalError("failed to store session token", err)
	}

	return raw, token, nil
}

// ResolveSessionToken maps a raw bearer token to the owning user id.
// Returns ok=false for unknown, revoked and expired tokens alike; the caller
// cannot distinguish why a token failed.
func (l *TokenLedger) ResolveSessionToken(ctx context.Context, raw string) (string, bool, error) {
	if len(raw) < minRawTokenLength {
		return "", false, nil
	}

	token, err := l.sessions.GetSessionTokenByHash(ctx, hashToken(raw))
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return "", false, nil
		}
		return "", false, internalError("failed to look up session token", err)
	}

	now := l.now().UTC()
	if token.RevokedAt != nil || !now.Before(token.ExpiresAt) {
		return "", false, nil
	}

	// Best-effort bookkeeping; resolution succeeds even if the touch fails.
	if err := l.sessions.TouchSessionToken(ctx, token.ID, now); err != nil {
		l.logger.Warn("failed to touch session token", "token_id", token.ID, "error", err)
	}

	return token.UserID, true, nil
}

// RevokeSessionToken revokes the token with the given raw value. Revoking an
// unknown or already-revoked token is not an error.
func (l *TokenLedger) RevokeSessionToken(ctx context.Context, raw string) error {
	if len(raw) < minRawTokenLength {
		return nil
	}
	if err := l.sessions.RevokeSessionTokenByHash(ctx, hashToken(raw), l.now().UTC()); err != nil {
		return internalError("failed to revoke session token", err)
	}
	return nil
}

// RevokeAllSessionTokens revokes every live session token of the user and
// returns how many were revoked.
func (l *TokenLedger) RevokeAllSessionTokens(ctx context.Context, userID string) (int, error) {
	count, err := l.sessions.RevokeUserSessionTokens(ctx, userID, l.now().UTC())
	if err != nil {
		return 0, internalError("failed to revoke user session tokens", err)
	}
	return count, nil
}

// IssueResetToken creates a password-reset token, first marking any prior
// unused reset tokens for the user as used.
func (l *TokenLedger) IssueResetToken(ctx context.Context, userID string, meta RequestMeta) (string, *models.PasswordResetToken, error) {
	now := l.now().UTC()

	if _, err := l.resets.MarkUserResetTokensUsed(ctx, userID, now); err != nil {
		return "", nil, internalError("failed to invalidate previous reset tokens", err)
	}

	raw, err := newRawToken()
	if err != nil {
		return "", nil, internalError("failed to generate reset token", err)
	}

	token := &models.PasswordResetToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		TokenHash: hashToken(raw),
		CreatedAt: now,
		ExpiresAt: now.Add(l.resetTTL),
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	}
	if err := l.resets.CreateResetToken(ctx, token); err != nil {
		return "", nil, internalError("failed to store reset token", err)
	}

	return raw, token, nil
}

// ResolveResetToken maps a raw reset token to the owning user id. A token
// resolves only while unused and unexpired.
func (l *TokenLedger) ResolveResetToken(ctx context.Context, raw string) (string, bool, error) {
	if len(raw) < minRawTokenLength {
		return "", false, nil
	}

	token, err := l.resets.GetResetTokenByHash(ctx, hashToken(raw))
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return "", false, nil
		}
		return "", false, internalError("failed to look up reset token", err)
	}

	now := l.now().UTC()
	if token.UsedAt != nil || !now.Before(token.ExpiresAt) {
		return "", false, nil
	}

	return token.UserID, true, nil
}

// MarkResetTokenUsed consumes a reset token after a successful password
// reset.
func (l *TokenLedger) MarkResetTokenUsed(ctx context.Context, raw string) error {
	if err := l.resets.MarkResetTokenUsedByHash(ctx, hashToken(raw), l.now().UTC()); err != nil {
		return internalError("failed to mark reset token used", err)
	}
	return nil
}

// InvalidateUserResetTokens marks all of the user's unused reset tokens used.
func (l *TokenLedger) InvalidateUserResetTokens(ctx context.Context, userID string) error {
	if _, err := l.resets.MarkUserResetTokensUsed(ctx, userID, l.now().UTC()); err != nil {
		return internalError("failed to invalidate reset tokens", err)
	}
	return nil
}

// SweepExpiredSessionTokens physically deletes expired session token rows.
func (l *TokenLedger) SweepExpiredSessionTokens(ctx context.Context) (int, error) {
	count, err := l.sessions.DeleteExpiredSessionTokens(ctx, l.now().UTC())
	if err != nil {
		return 0, internalError("failed to sweep expired session tokens", err)
	}
	return count, nil
}
