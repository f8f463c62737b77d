package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/teamchat/internal/models"
)

// messageFixture creates a user, workspace and public channel for message
// tests.
type messageFixture struct {
	env       *testEnv
	user      *models.User
	workspace *models.Workspace
	channel   *models.Channel
}

func setupMessageFixture(t *testing.T, ctx context.Context) *messageFixture {
	t.Helper()

	env := setupTestEnv(t)
	user := registerTestUser(t, ctx, env, "alice@example.com")

	workspace, err := env.workspaces.Create(ctx, user.ID, "Engineering", "workspace for tests")
	require.NoError(t, err)
	channel, err := env.channels.Create(ctx, user.ID, workspace.ID, "general", "open discussion", models.VisibilityPublic)
	require.NoError(t, err)

	return &messageFixture{env: env, user: user, workspace: workspace, channel: channel}
}

func TestMessageService_SendAndList(t *testing.T) {
	ctx := context.Background()
	f := setupMessageFixture(t, ctx)

	message, err := f.env.messages.Send(ctx, f.user.ID, f.workspace.ID, f.channel.ID, "hello world", nil)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, message.SenderID)

	messages, err := f.env.messages.List(ctx, f.user.ID, f.workspace.ID, f.channel.ID, 0)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hello world", messages[0].Content)
}

func TestMessageService_SendValidation(t *testing.T) {
	ctx := context.Background()
	f := setupMessageFixture(t, ctx)

	// Empty content without attachments is rejected.
	_, err := f.env.messages.Send(ctx, f.user.ID, f.workspace.ID, f.channel.ID, "   ", nil)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	// Content above the cap is rejected.
	_, err = f.env.messages.Send(ctx, f.user.ID, f.workspace.ID, f.channel.ID, strings.Repeat("a", 1001), nil)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	// Attachment ids must reference uploaded attachments.
	_, err = f.env.messages.Send(ctx, f.user.ID, f.workspace.ID, f.channel.ID, "see attached", []string{models.NewID()})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = f.env.messages.Send(ctx, f.user.ID, f.workspace.ID, f.channel.ID, "see attached", []string{"not-an-id"})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestMessageService_SendWithAttachment(t *testing.T) {
	ctx := context.Background()
	f := setupMessageFixture(t, ctx)

	attachment, err := f.env.attachments.Upload(ctx, f.user.ID, "notes.txt", "text/plain", 5, strings.NewReader("notes"))
	require.NoError(t, err)

	// Empty content is allowed when attachments are present.
	message, err := f.env.messages.Send(ctx, f.user.ID, f.workspace.ID, f.channel.ID, "", []string{attachment.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{attachment.ID}, message.AttachmentIDs)
}

func TestMessageService_PrivateChannelAccess(t *testing.T) {
	ctx := context.Background()
	f := setupMessageFixture(t, ctx)
	outsider := registerTestUser(t, ctx, f.env, "outsider@example.com")

	private, err := f.env.channels.Create(ctx, f.user.ID, f.workspace.ID, "secrets", "invite only", models.VisibilityPrivate)
	require.NoError(t, err)

	_, err = f.env.messages.Send(ctx, outsider.ID, f.workspace.ID, private.ID, "let me in", nil)
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))

	_, err = f.env.messages.List(ctx, outsider.ID, f.workspace.ID, private.ID, 0)
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))

	// Membership unlocks both.
	require.NoError(t, f.env.channels.AddMember(ctx, f.user.ID, f.workspace.ID, private.ID, outsider.ID))
	_, err = f.env.messages.Send(ctx, outsider.ID, f.workspace.ID, private.ID, "thanks", nil)
	require.NoError(t, err)
}

func TestMessageService_ListClampAndOrder(t *testing.T) {
	ctx := context.Background()
	f := setupMessageFixture(t, ctx)

	base := time.Now().UTC()
	for i := 0; i < 60; i++ {
		at := base.Add(time.Duration(i) * time.Second)
		f.env.setClock(func() time.Time { return at })
		_, err := f.env.messages.Send(ctx, f.user.ID, f.workspace.ID, f.channel.ID, fmt.Sprintf("message %d", i), nil)
		require.NoError(t, err)
	}

	// Zero limit means the default page size of 50.
	messages, err := f.env.messages.List(ctx, f.user.ID, f.workspace.ID, f.channel.ID, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 50)
	assert.Equal(t, "message 0", messages[0].Content)
	assert.Equal(t, "message 49", messages[49].Content)

	// An oversized limit is clamped to 200.
	messages, err = f.env.messages.List(ctx, f.user.ID, f.workspace.ID, f.channel.ID, 1000)
	require.NoError(t, err)
	assert.Len(t, messages, 60)

	messages, err = f.env.messages.List(ctx, f.user.ID, f.workspace.ID, f.channel.ID, 10)
	require.NoError(t, err)
	assert.Len(t, messages, 10)
}

func TestMessageService_EditAndDelete(t *testing.T) {
	ctx := context.Background()
	f := setupMessageFixture(t, ctx)
	other := registerTestUser(t, ctx, f.env, "other@example.com")

	message, err := f.env.messages.Send(ctx, f.user.ID, f.workspace.ID, f.channel.ID, "original", nil)
	require.NoError(t, err)

	// Only the sender edits, even in a public channel.
	_, err = f.env.messages.Edit(ctx, other.ID, f.workspace.ID, f.channel.ID, message.ID, "hijacked")
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))

	edited, err := f.env.messages.Edit(ctx, f.user.ID, f.workspace.ID, f.channel.ID, message.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", edited.Content)
	assert.NotNil(t, edited.UpdatedAt)

	// Only the sender deletes.
	err = f.env.messages.Delete(ctx, other.ID, f.workspace.ID, f.channel.ID, message.ID)
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))

	require.NoError(t, f.env.messages.Delete(ctx, f.user.ID, f.workspace.ID, f.channel.ID, message.ID))

	// Deleting again is a no-op, editing a deleted message is a conflict.
	require.NoError(t, f.env.messages.Delete(ctx, f.user.ID, f.workspace.ID, f.channel.ID, message.ID))
	_, err = f.env.messages.Edit(ctx, f.user.ID, f.workspace.ID, f.channel.ID, message.ID, "too late")
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	// Deleted messages disappear from listings.
	messages, err := f.env.messages.List(ctx, f.user.ID, f.workspace.ID, f.channel.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestMessageService_CrossChannelAddressing(t *testing.T) {
	ctx := context.Background()
	f := setupMessageFixture(t, ctx)

	otherChannel, err := f.env.channels.Create(ctx, f.user.ID, f.workspace.ID, "random", "other channel", models.VisibilityPublic)
	require.NoError(t, err)

	message, err := f.env.messages.Send(ctx, f.user.ID, f.workspace.ID, f.channel.ID, "in general", nil)
	require.NoError(t, err)

	// A real message addressed under the wrong channel is not-found.
	_, err = f.env.messages.Edit(ctx, f.user.ID, f.workspace.ID, otherChannel.ID, message.ID, "misdirected")
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))

	err = f.env.messages.Delete(ctx, f.user.ID, f.workspace.ID, otherChannel.ID, message.ID)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}
