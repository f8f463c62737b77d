package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/teamchat/internal/models"
	"github.com/iudanet/teamchat/internal/server/storage"
)

func newSessionToken(userID, hash string, expiresAt time.Time) *models.SessionToken {
	return &models.SessionToken{
		ID:        models.NewID(),
		UserID:    userID,
		TokenHash: hash,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
		IP:        "127.0.0.1",
		UserAgent: "test-agent",
	}
}

func TestTokenStorage_CreateAndGetByHash(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s, "alice@example.com")

	token := newSessionToken(userID, "hash-1", time.Now().UTC().Add(time.Hour))
	require.NoError(t, s.CreateSessionToken(ctx, token))

	got, err := s.GetSessionTokenByHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, token.ID, got.ID)
	assert.Equal(t, userID, got.UserID)
	assert.Nil(t, got.RevokedAt)
	assert.Nil(t, got.LastUsedAt)
	assert.Equal(t, "127.0.0.1", got.IP)
	assert.Equal(t, "test-agent", got.UserAgent)

	_, err = s.GetSessionTokenByHash(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
}

func TestTokenStorage_RevokeSessionTokenByHash(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s, "alice@example.com")

	token := newSessionToken(userID, "hash-1", time.Now().UTC().Add(time.Hour))
	require.NoError(t, s.CreateSessionToken(ctx, token))

	first := time.Now().UTC()
	require.NoError(t, s.RevokeSessionTokenByHash(ctx, "hash-1", first))

	got, err := s.GetSessionTokenByHash(ctx, "hash-1")
	require.NoError(t, err)
	require.NotNil(t, got.RevokedAt)

	// Second revocation is a no-op: the original timestamp survives.
	require.NoError(t, s.RevokeSessionTokenByHash(ctx, "hash-1", first.Add(time.Hour)))
	again, err := s.GetSessionTokenByHash(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, got.RevokedAt.Unix(), again.RevokedAt.Unix())

	// Revoking an unknown hash is also a no-op.
	require.NoError(t, s.RevokeSessionTokenByHash(ctx, "missing", first))
}

func TestTokenStorage_RevokeUserSessionTokens(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s, "alice@example.com")
	otherID := createTestUser(t, ctx, s, "bob@example.com")

	expires := time.Now().UTC().Add(time.Hour)
	require.NoError(t, s.CreateSessionToken(ctx, newSessionToken(userID, "hash-1", expires)))
	require.NoError(t, s.CreateSessionToken(ctx, newSessionToken(userID, "hash-2", expires)))
	require.NoError(t, s.CreateSessionToken(ctx, newSessionToken(otherID, "hash-3", expires)))

	count, err := s.RevokeUserSessionTokens(ctx, userID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Other users' tokens are untouched.
	got, err := s.GetSessionTokenByHash(ctx, "hash-3")
	require.NoError(t, err)
	assert.Nil(t, got.RevokedAt)

	// Second pass finds nothing left to revoke.
	count, err = s.RevokeUserSessionTokens(ctx, userID, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestTokenStorage_TouchSessionToken(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s, "alice@example.com")

	token := newSessionToken(userID, "hash-1", time.Now().UTC().Add(time.Hour))
	require.NoError(t, s.CreateSessionToken(ctx, token))

	usedAt := time.Now().UTC()
	require.NoError(t, s.TouchSessionToken(ctx, token.ID, usedAt))

	got, err := s.GetSessionTokenByHash(ctx, "hash-1")
	require.NoError(t, err)
	require.NotNil(t, got.LastUsedAt)
	assert.Equal(t, usedAt.Unix(), got.LastUsedAt.Unix())
}

func TestTokenStorage_DeleteExpiredSessionTokens(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s, "alice@example.com")

	now := time.Now().UTC()
	require.NoError(t, s.CreateSessionToken(ctx, newSessionToken(userID, "expired", now.Add(-time.Hour))))
	require.NoError(t, s.CreateSessionToken(ctx, newSessionToken(userID, "live", now.Add(time.Hour))))

	count, err := s.DeleteExpiredSessionTokens(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = s.GetSessionTokenByHash(ctx, "expired")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)

	_, err = s.GetSessionTokenByHash(ctx, "live")
	assert.NoError(t, err)
}
