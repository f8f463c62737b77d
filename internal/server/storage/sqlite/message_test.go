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

func createTestMessage(t *testing.T, ctx context.Context, s *Storage, workspaceID, channelID, senderID, content string, createdAt time.Time) *models.Message {
	t.Helper()

	message := &models.Message{
		ID:          models.NewID(),
		WorkspaceID: workspaceID,
		ChannelID:   channelID,
		SenderID:    senderID,
		Content:     content,
		CreatedAt:   createdAt,
	}
	require.NoError(t, s.CreateMessage(ctx, message))

	return message
}

func TestMessageStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s, "alice@example.com")
	workspaceID := createTestWorkspace(t, ctx, s, "Eng", userID)
	channelID := createTestChannel(t, ctx, s, workspaceID, "general", models.VisibilityPublic, userID)

	message := &models.Message{
		ID:            models.NewID(),
		WorkspaceID:   workspaceID,
		ChannelID:     channelID,
		SenderID:      userID,
		Content:       "see attached",
		AttachmentIDs: []string{models.NewID(), models.NewID()},
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, s.CreateMessage(ctx, message))

	got, err := s.GetMessageByID(ctx, message.ID)
	require.NoError(t, err)
	assert.Equal(t, message.Content, got.Content)
	assert.Equal(t, message.AttachmentIDs, got.AttachmentIDs)
	assert.Nil(t, got.UpdatedAt)
	assert.Nil(t, got.DeletedAt)

	_, err = s.GetMessageByID(ctx, models.NewID())
	assert.ErrorIs(t, err, storage.ErrMessageNotFound)
}

func TestMessageStorage_ListExcludesDeletedAndOrdersAscending(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s, "alice@example.com")
	workspaceID := createTestWorkspace(t, ctx, s, "Eng", userID)
	channelID := createTestChannel(t, ctx, s, workspaceID, "general", models.VisibilityPublic, userID)

	base := time.Now().UTC()
	first := createTestMessage(t, ctx, s, workspaceID, channelID, userID, "first", base)
	second := createTestMessage(t, ctx, s, workspaceID, channelID, userID, "second", base.Add(time.Second))
	third := createTestMessage(t, ctx, s, workspaceID, channelID, userID, "third", base.Add(2*time.Second))

	// Soft-delete the middle message.
	deletedAt := base.Add(3 * time.Second)
	second.DeletedAt = &deletedAt
	require.NoError(t, s.UpdateMessage(ctx, second))

	messages, err := s.ListChannelMessages(ctx, workspaceID, channelID, 50)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, first.ID, messages[0].ID)
	assert.Equal(t, third.ID, messages[1].ID)

	// The record itself survives the soft delete.
	got, err := s.GetMessageByID(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted())
	assert.Equal(t, "second", got.Content)
}

func TestMessageStorage_ListHonorsLimit(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s, "alice@example.com")
	workspaceID := createTestWorkspace(t, ctx, s, "Eng", userID)
	channelID := createTestChannel(t, ctx, s, workspaceID, "general", models.VisibilityPublic, userID)

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		createTestMessage(t, ctx, s, workspaceID, channelID, userID, "msg", base.Add(time.Duration(i)*time.Second))
	}

	messages, err := s.ListChannelMessages(ctx, workspaceID, channelID, 3)
	require.NoError(t, err)
	assert.Len(t, messages, 3)
}

func TestMessageStorage_UpdateContent(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s, "alice@example.com")
	workspaceID := createTestWorkspace(t, ctx, s, "Eng", userID)
	channelID := createTestChannel(t, ctx, s, workspaceID, "general", models.VisibilityPublic, userID)

	message := createTestMessage(t, ctx, s, workspaceID, channelID, userID, "hello", time.Now().UTC())

	updatedAt := time.Now().UTC().Add(time.Minute)
	message.Content = "hello, edited"
	message.UpdatedAt = &updatedAt
	require.NoError(t, s.UpdateMessage(ctx, message))

	got, err := s.GetMessageByID(ctx, message.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello, edited", got.Content)
	require.NotNil(t, got.UpdatedAt)

	missing := &models.Message{ID: models.NewID()}
	err = s.UpdateMessage(ctx, missing)
	assert.ErrorIs(t, err, storage.ErrMessageNotFound)
}

func TestAttachmentStorage_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	userID := createTestUser(t, ctx, s, "alice@example.com")

	attachment := &models.Attachment{
		ID:          models.NewID(),
		FileName:    "report.pdf",
		ContentType: "application/pdf",
		Size:        2048,
		UploadedBy:  userID,
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, s.CreateAttachment(ctx, attachment))

	got, err := s.GetAttachmentByID(ctx, attachment.ID)
	require.NoError(t, err)
	assert.Equal(t, "report.pdf", got.FileName)
	assert.Equal(t, int64(2048), got.Size)

	_, err = s.GetAttachmentByID(ctx, models.NewID())
	assert.ErrorIs(t, err, storage.ErrAttachmentNotFound)
}
