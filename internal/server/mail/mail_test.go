package mail

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogMailer(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	mailer := NewLogMailer(logger)
	err := mailer.Send(context.Background(), "alice@example.com", "Reset your password",
		"click the link", "<p>click the link</p>")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "alice@example.com")
	assert.Contains(t, out, "click the link")
}

func TestBuildMessage_PlainTextOnly(t *testing.T) {
	msg, err := buildMessage("no-reply@example.com", "alice@example.com", "Hello", "plain body", "")
	require.NoError(t, err)

	out := string(msg)
	assert.Contains(t, out, "Content-Type: text/plain; charset=utf-8")
	assert.Contains(t, out, "plain body")
	assert.NotContains(t, out, "multipart/alternative")
}

func TestBuildMessage_MultipartAlternative(t *testing.T) {
	msg, err := buildMessage("no-reply@example.com", "alice@example.com", "Hello",
		"plain body", "<p>html body</p>")
	require.NoError(t, err)

	out := string(msg)
	assert.Contains(t, out, "multipart/alternative")
	assert.Contains(t, out, "Content-Type: text/plain; charset=utf-8")
	assert.Contains(t, out, "Content-Type: text/html; charset=utf-8")
	assert.Contains(t, out, "plain body")
	assert.Contains(t, out, "<p>html body</p>")

	// The text part comes first so non-HTML clients pick it up.
	assert.Less(t, bytes.Index(msg, []byte("plain body")), bytes.Index(msg, []byte("<p>html body</p>")))
}

func TestNewSMTPMailer_HostExtraction(t *testing.T) {
	mailer := NewSMTPMailer("smtp.example.com:587", "no-reply@example.com", "user", "pass")
	assert.Equal(t, "smtp.example.com", mailer.host)

	// No port keeps the address as the host.
	mailer = NewSMTPMailer("smtp.example.com", "no-reply@example.com", "", "")
	assert.Equal(t, "smtp.example.com", mailer.host)
}
