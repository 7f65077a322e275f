package service

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/collectivefm/collective-backend/internal/config"
)

// Mail is a single outbound message.
type Mail struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// Mailer delivers outbound mail. The contact relay depends on this interface
// so tests can capture messages instead of opening SMTP connections.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// SMTPMailer sends mail through the configured SMTP relay.
type SMTPMailer struct {
	cfg *config.Config
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers one plain-text message. Auth is used only when SMTP_USER is
// set, so a local dev relay works without credentials.
func (m *SMTPMailer) Send(_ context.Context, mail Mail) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.SMTPHost, m.cfg.SMTPPort)

	var auth smtp.Auth
	if m.cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.cfg.MailFrom)
	fmt.Fprintf(&msg, "To: %s\r\n", mail.To)
	if mail.ReplyTo != "" {
		fmt.Fprintf(&msg, "Reply-To: %s\r\n", mail.ReplyTo)
	}
	fmt.Fprintf(&msg, "Subject: %s\r\n", mail.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(mail.Body)

	if err := smtp.SendMail(addr, auth, m.cfg.MailFrom, []string{mail.To}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
