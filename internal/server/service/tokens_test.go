package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenLedger_RejectsTinyTTL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewTokenLedger(nil, nil, 30*time.Second, time.Hour, logger)
	require.Error(t, err)
	assert.Equal(t, KindConfiguration, KindOf(err))

	_, err = NewTokenLedger(nil, nil, time.Hour, time.Second, logger)
	require.Error(t, err)
	assert.Equal(t, KindConfiguration, KindOf(err))
}

func TestTokenLedger_SessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	user := registerTestUser(t, ctx, env, "alice@example.com")

	raw, token, err := env.tokens.IssueSessionToken(ctx, user.ID, RequestMeta{IP: "10.0.0.1", UserAgent: "cli"})
	require.NoError(t, err)
	assert.Len(t, raw, 64)
	assert.NotEqual(t, raw, token.TokenHash)

	userID, ok, err := env.tokens.ResolveSessionToken(ctx, raw)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, user.ID, userID)

	// Too-short values are rejected before any lookup.
	_, ok, err = env.tokens.ResolveSessionToken(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok)

	// An unknown but well-formed token does not resolve.
	_, ok, err = env.tokens.ResolveSessionToken(ctx, raw[:32]+"00000000000000000000000000000000")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenLedger_SessionExpiry(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	user := registerTestUser(t, ctx, env, "alice@example.com")

	issued := time.Now().UTC()
	env.setClock(func() time.Time { return issued })

	raw, _, err := env.tokens.IssueSessionToken(ctx, user.ID, RequestMeta{})
	require.NoError(t, err)

	// One second before expiry the token still resolves.
	env.setClock(func() time.Time { return issued.Add(testSessionTTL - time.Second) })
	_, ok, err := env.tokens.ResolveSessionToken(ctx, raw)
	require.NoError(t, err)
	assert.True(t, ok)

	// At the expiry instant it no longer does.
	env.setClock(func() time.Time { return issued.Add(testSessionTTL) })
	_, ok, err = env.tokens.ResolveSessionToken(ctx, raw)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenLedger_RevokeSessionToken(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	user := registerTestUser(t, ctx, env, "alice@example.com")

	raw, _, err := env.tokens.IssueSessionToken(ctx, user.ID, RequestMeta{})
	require.NoError(t, err)

	require.NoError(t, env.tokens.RevokeSessionToken(ctx, raw))

	_, ok, err := env.tokens.ResolveSessionToken(ctx, raw)
	require.NoError(t, err)
	assert.False(t, ok)

	// Revoking again, or revoking garbage, is a no-op.
	require.NoError(t, env.tokens.RevokeSessionToken(ctx, raw))
	require.NoError(t, env.tokens.RevokeSessionToken(ctx, "short"))
}

func TestTokenLedger_RevokeAllSessionTokens(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	alice := registerTestUser(t, ctx, env, "alice@example.com")
	bob := registerTestUser(t, ctx, env, "bob@example.com")

	rawA1, _, err := env.tokens.IssueSessionToken(ctx, alice.ID, RequestMeta{})
	require.NoError(t, err)
	rawA2, _, err := env.tokens.IssueSessionToken(ctx, alice.ID, RequestMeta{})
	require.NoError(t, err)
	rawB, _, err := env.tokens.IssueSessionToken(ctx, bob.ID, RequestMeta{})
	require.NoError(t, err)

	count, err := env.tokens.RevokeAllSessionTokens(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for _, raw := range []string{rawA1, rawA2} {
		_, ok, err := env.tokens.ResolveSessionToken(ctx, raw)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	// Bob's token is untouched.
	_, ok, err := env.tokens.ResolveSessionToken(ctx, rawB)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTokenLedger_ResetTokenSingleUse(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	user := registerTestUser(t, ctx, env, "alice@example.com")

	raw, _, err := env.tokens.IssueResetToken(ctx, user.ID, RequestMeta{})
	require.NoError(t, err)

	userID, ok, err := env.tokens.ResolveResetToken(ctx, raw)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, user.ID, userID)

	require.NoError(t, env.tokens.MarkResetTokenUsed(ctx, raw))

	_, ok, err = env.tokens.ResolveResetToken(ctx, raw)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenLedger_IssueResetTokenInvalidatesPrevious(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	user := registerTestUser(t, ctx, env, "alice@example.com")

	first, _, err := env.tokens.IssueResetToken(ctx, user.ID, RequestMeta{})
	require.NoError(t, err)
	second, _, err := env.tokens.IssueResetToken(ctx, user.ID, RequestMeta{})
	require.NoError(t, err)

	_, ok, err := env.tokens.ResolveResetToken(ctx, first)
	require.NoError(t, err)
	assert.False(t, ok, "older reset token must be dead")

	_, ok, err = env.tokens.ResolveResetToken(ctx, second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestTokenLedger_ResetTokenExpiry(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	user := registerTestUser(t, ctx, env, "alice@example.com")

	issued := time.Now().UTC()
	env.setClock(func() time.Time { return issued })

	raw, _, err := env.tokens.IssueResetToken(ctx, user.ID, RequestMeta{})
	require.NoError(t, err)

	env.setClock(func() time.Time { return issued.Add(testResetTTL) })
	_, ok, err := env.tokens.ResolveResetToken(ctx, raw)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenLedger_SweepExpiredSessionTokens(t *testing.T) {
	ctx := context.Background()
	env := setupTestEnv(t)
	user := registerTestUser(t, ctx, env, "alice@example.com")

	issued := time.Now().UTC()
	env.setClock(func() time.Time { return issued })

	_, _, err := env.tokens.IssueSessionToken(ctx, user.ID, RequestMeta{})
	require.NoError(t, err)
	live, _, err := env.tokens.IssueSessionToken(ctx, user.ID, RequestMeta{})
	require.NoError(t, err)

	// Past the TTL both earlier tokens are expired; a token issued now is
	// not.
	env.setClock(func() time.Time { return issued.Add(testSessionTTL + time.Minute) })
	liveRaw, _, err := env.tokens.IssueSessionToken(ctx, user.ID, RequestMeta{})
	require.NoError(t, err)

	count, err := env.tokens.SweepExpiredSessionTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, ok, err := env.tokens.ResolveSessionToken(ctx, liveRaw)
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = env.tokens.ResolveSessionToken(ctx, live)
	require.NoError(t, err)
	assert.False(t, ok)
}
