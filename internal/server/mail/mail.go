package mail

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"strings"
)

// Mailer sends transactional mail with a plain-text body and an optional
// HTML alternative. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}

// SMTPMailer sends mail through a plain SMTP relay using net/smtp. AUTH is
// optional: with an empty username the mailer connects unauthenticated,
// which fits local relays and test setups like MailHog.
type SMTPMailer struct {
	addr     string // host:port
	from     string
	username string
	password string
	host     string
}

func NewSMTPMailer(addr, from, username, password string) *SMTPMailer {
	host := addr
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		host = addr[:i]
	}
	return &SMTPMailer{
		addr:     addr,
		from:     from,
		username: username,
		password: password,
		host:     host,
	}
}

func (m *SMTPMailer) Send(_ context.Context, to, subject, textBody, htmlBody string) error {
	msg, err := buildMessage(m.from, to, subject, textBody, htmlBody)
	if err != nil {
		return fmt.Errorf("failed to build mail for %s: %w", to, err)
	}

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(m.addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

// buildMessage renders the full RFC 822 message. With an HTML body the
// result is multipart/alternative with the text part first, so clients that
// cannot render HTML fall back to the plain text.
func buildMessage(from, to, subject, textBody, htmlBody string) ([]byte, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\n", from, to, subject)

	if htmlBody == "" {
		sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
		sb.WriteString(textBody)
		sb.WriteString("\r\n")
		return []byte(sb.String()), nil
	}

	var body strings.Builder
	writer := multipart.NewWriter(&body)

	text, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := text.Write([]byte(textBody)); err != nil {
		return nil, err
	}

	html, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=utf-8"},
	})
	if err != nil {
		return nil, err
	}
	if _, err := html.Write([]byte(htmlBody)); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	fmt.Fprintf(&sb, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", writer.Boundary())
	sb.WriteString(body.String())
	return []byte(sb.String()), nil
}

// LogMailer writes mail to the log instead of sending it. Used in
// development and as a fallback when no SMTP relay is configured.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, to, subject, textBody, _ string) error {
	m.logger.Info("outgoing mail",
		"to", to,
		"subject", subject,
		"body", textBody,
	)
	return nil
}
