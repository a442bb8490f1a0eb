// Package mail delivers transactional email. Delivery is best-effort: the
// membership workflow never waits on or fails because of it.
package mail

import (
	"github.com/clubhub/clubhub/internal/config"
	"gopkg.in/gomail.v2"
)

// Sender sends a single email.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender delivers mail over SMTP.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates a sender from mail configuration.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// Send delivers one HTML email.
func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return s.dialer.DialAndSend(m)
}

// NopSender discards mail. Used when SMTP is not configured.
type NopSender struct{}

func (NopSender) Send(to, subject, body string) error { return nil }
