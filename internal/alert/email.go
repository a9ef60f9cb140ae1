package alert

import (
	"context"

	"backend-safeher/internal/config"

	"gopkg.in/gomail.v2"
)

// SMTPEmailSender delivers alert mail through a plain SMTP relay.
type SMTPEmailSender struct {
	host string
	port int
	user string
	pass string
	from string
}

func NewSMTPEmailSender(cfg config.Config) *SMTPEmailSender {
	if cfg.SMTPHost == "" {
		return nil
	}
	return &SMTPEmailSender{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.SMTPFrom,
	}
}

func (s *SMTPEmailSender) Send(_ context.Context, to []string, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
	return d.DialAndSend(m)
}
