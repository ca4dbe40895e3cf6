// Package mailer delivers account-activation email.
//
// Delivery is fire-and-forget: the account flow hands a rendered message to
// the mailer and does not care whether it arrives. When SMTP is not
// configured (local development, tests) the message is logged instead of
// sent.
package mailer

import (
	"fmt"
	"log/slog"
	"net/smtp"

	"lumagram/internal/config"
	"lumagram/internal/middleware"
)

// Mailer sends rendered messages to a destination address.
type Mailer interface {
	Send(to, subject, body string) error
	SendActivationMail(to, uidb64, token string) error
}

type smtpMailer struct {
	host     string
	port     string
	from     string
	password string
	baseURL  string
	logger   *slog.Logger
}

// New returns a Mailer backed by the configured SMTP server, or a
// logging-only mailer when SMTP_HOST is empty.
func New(cfg *config.Config) Mailer {
	return &smtpMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.SMTPFrom,
		password: cfg.SMTPPassword,
		baseURL:  cfg.BaseURL,
		logger:   middleware.Logger,
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	if m.host == "" {
		m.logger.Info("SMTP not configured, skipping mail delivery",
			slog.String("to", to),
			slog.String("subject", subject),
		)
		return nil
	}

	message := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-version: 1.0;\r\n"+
		"Content-Type: text/plain; charset=\"UTF-8\";\r\n\r\n"+
		"%s\r\n", to, m.from, subject, body))

	auth := smtp.PlainAuth("", m.from, m.password, m.host)

	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{to}, message); err != nil {
		m.logger.Error("mail delivery failed",
			slog.String("to", to),
			slog.String("error", err.Error()),
		)
		return err
	}

	m.logger.Info("mail delivered", slog.String("to", to))
	return nil
}

// SendActivationMail renders and sends the activation link for a new account.
func (m *smtpMailer) SendActivationMail(to, uidb64, token string) error {
	link := ActivationLink(m.baseURL, uidb64, token)
	return m.Send(to, activationSubject, renderActivationBody(link))
}

const activationSubject = "[Lumagram] Activate your account"

// ActivationLink builds the activation URL embedded in the mail body.
func ActivationLink(baseURL, uidb64, token string) string {
	return fmt.Sprintf("%s/api/auth/activate/%s/%s", baseURL, uidb64, token)
}

func renderActivationBody(link string) string {
	return fmt.Sprintf(
		"Welcome to Lumagram!\n\n"+
			"Click the link below to activate your account:\n\n"+
			"%s\n\n"+
			"The link expires in 24 hours. If you did not sign up, you can ignore this message.\n",
		link)
}
