package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"
)

type SMTPConfig struct {
	Host       string
	Port       int
	From       string
	Username   string // optional, for authenticated SMTP
	Password   string // optional, for authenticated SMTP
	AdminEmail string
}

// SMTPNotifier sends the admin report as a multipart/alternative mail with
// both the plain-text and the HTML rendering of the error list.
type SMTPNotifier struct {
	cfg SMTPConfig
}

var _ Provider = (*SMTPNotifier)(nil)

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

func (n *SMTPNotifier) SendAdminReport(_ context.Context, subject, textBody, htmlBody string) error {
	msg := buildMessage(n.cfg, subject, textBody, htmlBody)

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	var auth smtp.Auth
	if n.cfg.Username != "" && n.cfg.Password != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, n.cfg.From, []string{n.cfg.AdminEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send admin report: %w", err)
	}
	return nil
}

const boundary = "==confsync-report-boundary=="

func buildMessage(cfg SMTPConfig, subject, textBody, htmlBody string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "From: %s\r\n", cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", cfg.AdminEmail)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(textBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.String()
}

// Noop is used when no admin recipient is configured; the report is only
// logged.
type Noop struct {
	log *logrus.Logger
}

var _ Provider = (*Noop)(nil)

func NewNoop(log *logrus.Logger) *Noop {
	return &Noop{log: log}
}

func (n *Noop) SendAdminReport(_ context.Context, subject, textBody, _ string) error {
	n.log.WithField("subject", subject).Warn("admin report not delivered, no recipient configured:\n" + textBody)
	return nil
}
