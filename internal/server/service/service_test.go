package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/teamchat/internal/models"
	"github.com/iudanet/teamchat/internal/server/blob"
	"github.com/iudanet/teamchat/internal/server/storage/sqlite"
)

const (
	testSessionTTL = 7 * 24 * time.Hour
	testResetTTL   = time.Hour
	testPassword   = "Password1"
)

// recordingMailer captures outgoing mail for assertions and can be told to
// fail.
type recordingMailer struct {
	mu      sync.Mutex
	sent    []recordedMail
	sendErr error
}

type recordedMail struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

func (m *recordingMailer) Send(_ context.Context, to, subject, textBody, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, recordedMail{To: to, Subject: subject, TextBody: textBody, HTMLBody: htmlBody})
	return nil
}

func (m *recordingMailer) messages() []recordedMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]recordedMail(nil), m.sent...)
}

// testEnv wires every service over a shared in-memory storage.
type testEnv struct {
	storage     *sqlite.Storage
	mailer      *recordingMailer
	blobs       *blob.MemoryStore
	tokens      *TokenLedger
	auth        *AuthService
	workspaces  *WorkspaceService
	channels    *ChannelService
	messages    *MessageService
	attachments *AttachmentService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := NewTokenLedger(s, s, testSessionTTL, testResetTTL, logger)
	require.NoError(t, err)

	mailer := &recordingMailer{}
	blobs := blob.NewMemoryStore()
	access := NewAccessEvaluator(s)
	channels := NewChannelService(s, s, s, s, access, logger)

	return &testEnv{
		storage:     s,
		mailer:      mailer,
		blobs:       blobs,
		tokens:      tokens,
		auth:        NewAuthService(s, tokens, mailer, "https://chat.example.com/reset", logger),
		workspaces:  NewWorkspaceService(s, logger),
		channels:    channels,
		messages:    NewMessageService(channels, s, s, access, logger),
		attachments: NewAttachmentService(s, blobs, logger),
	}
}

// registerTestUser creates an account through the service and returns it.
func registerTestUser(t *testing.T, ctx context.Context, env *testEnv, email string) *models.User {
	t.Helper()

	user, err := env.auth.Register(ctx, email, testPassword, "Test User")
	require.NoError(t, err)
	return user
}

// setClock pins every service clock to the given function.
func (e *testEnv) setClock(now func() time.Time) {
	e.tokens.now = now
	e.auth.now = now
	e.workspaces.now = now
	e.channels.now = now
	e.messages.now = now
	e.attachments.now = now
}
