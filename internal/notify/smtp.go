package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

var (
	// ErrSMTPHostPortRequired is returned when Host/Port are missing.
	ErrSMTPHostPortRequired = errors.New("smtp host and port are required")
	// ErrSMTPFromRequired is returned when no sender address is configured.
	ErrSMTPFromRequired = errors.New("smtp sender address required")
)

// SMTPConfig configures the SMTP transport.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// Subject defaults to "Your one-time passcode".
	Subject string
}

// SMTPNotifier delivers OTP codes over net/smtp. The identity is used
// directly as the recipient address.
type SMTPNotifier struct {
	addr    string
	from    string
	subject string
	auth    smtp.Auth
}

func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, ErrSMTPHostPortRequired
	}
	if cfg.From == "" {
		return nil, ErrSMTPFromRequired
	}

	var auth smtp.Auth
	if cfg.Username != "" && cfg.Password != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	subject := cfg.Subject
	if subject == "" {
		subject = "Your one-time passcode"
	}

	return &SMTPNotifier{
		addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from:    cfg.From,
		subject: subject,
		auth:    auth,
	}, nil
}

func (n *SMTPNotifier) SendOTP(ctx context.Context, identity, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	headers := []string{
		"From: " + n.from,
		"To: " + identity,
		"Subject: " + n.subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
	}
	body := "Your one-time passcode is " + code + ". It expires shortly and can be used once."
	raw := strings.Join(headers, "\r\n") + "\r\n\r\n" + body

	return smtp.SendMail(n.addr, n.auth, n.from, []string{identity}, []byte(raw))
}
