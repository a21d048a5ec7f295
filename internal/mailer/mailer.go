package mailer

import (
	"fmt"
	"net/smtp"

	"wayfarer/internal/config"
	"wayfarer/pkg/log"
)

// Mailer dispatches out-of-band messages. The reset flow only ever hands it a
// token; rendering and delivery details stay here.
type Mailer interface {
	SendPasswordReset(to, token string) error
}

// SMTPMailer sends through a configured SMTP relay.
type SMTPMailer struct {
	cfg config.SMTP
}

func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendPasswordReset(to, token string) error {
	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Password reset\r\n\r\n"+
		"Use this token to reset your password: %s\r\n"+
		"It expires shortly. If you did not request a reset, ignore this message.\r\n",
		m.cfg.From, to, token)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}

	return nil
}

// LogMailer is the fallback when no SMTP relay is configured; it logs instead
// of sending so local development does not need a mail server.
type LogMailer struct {
	logger log.Logger
}

func NewLogMailer(logger log.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) SendPasswordReset(to, token string) error {
	m.logger.Info().Str("to", to).Str("token", token).Msg("password reset mail (log mailer)")
	return nil
}
