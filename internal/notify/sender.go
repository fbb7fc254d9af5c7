package notify

import (
	"fmt"
	"net/smtp"
	"os"

	"github.com/rs/zerolog"
)

// Sender delivers one email.  The consumer is agnostic to the
// transport; production uses SMTP, dev environments a log-only
// sender.
type Sender interface {
	Send(msg EmailMessage) error
}

// SMTPSender delivers mail through a plain SMTP relay configured by
// SMTP_HOST, SMTP_PORT, SMTP_USER and SMTP_PASS.
type SMTPSender struct {
	addr string
	auth smtp.Auth
}

// NewSMTPSender reads the SMTP_* environment variables.  It returns
// nil when SMTP_HOST is unset so callers can fall back to LogSender.
func NewSMTPSender() *SMTPSender {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	var auth smtp.Auth
	if user := os.Getenv("SMTP_USER"); user != "" {
		auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASS"), host)
	}
	return &SMTPSender{addr: host + ":" + port, auth: auth}
}

// Send transmits the message as a minimal RFC 5322 mail.
func (s *SMTPSender) Send(msg EmailMessage) error {
	payload := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		msg.From, msg.To, msg.Subject, msg.Body)
	return smtp.SendMail(s.addr, s.auth, msg.From, []string{msg.To}, []byte(payload))
}

// LogSender writes the message to the structured log instead of
// sending it.  Used when no SMTP relay is configured.
type LogSender struct{ Log zerolog.Logger }

func (s LogSender) Send(msg EmailMessage) error {
	s.Log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("email (log-only sender)")
	return nil
}
