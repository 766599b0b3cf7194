// Package mailer delivers password reset codes by email.
package mailer

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"gopkg.in/gomail.v2"

	"clinic/internal/logger"
)

// Sender delivers a password reset code to an email address.
type Sender interface {
	SendResetCode(ctx context.Context, to, code string) error
}

// SMTPConfig holds the outbound mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
}

const resetSubject = "Password Reset Code"

var resetTemplate = template.Must(template.New("reset").Parse(
	`<p>Hello,</p>` +
		`<p>Your password reset code is: <strong>{{.Code}}</strong></p>` +
		`<p>This code expires in {{.Minutes}} minutes. If you did not request a reset, you can ignore this email.</p>`,
))

// ResetCodeTTLMinutes is the lifetime quoted in the reset email.
const ResetCodeTTLMinutes = 10

// SMTPMailer sends mail through an SMTP server. Port 465 uses implicit TLS.
type SMTPMailer struct {
	cfg  SMTPConfig
	send func(*gomail.Message) error
}

// NewSMTPMailer creates an SMTPMailer from cfg.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTPMailer{cfg: cfg, send: func(m *gomail.Message) error { return dialer.DialAndSend(m) }}
}

// SendResetCode emails the reset code to the user.
func (s *SMTPMailer) SendResetCode(ctx context.Context, to, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := s.resetMessage(to, code)
	if err != nil {
		return err
	}
	if err := s.send(m); err != nil {
		return fmt.Errorf("send reset code to %s: %w", to, err)
	}
	return nil
}

func (s *SMTPMailer) resetMessage(to, code string) (*gomail.Message, error) {
	body, err := renderResetBody(code)
	if err != nil {
		return nil, err
	}
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.Username, s.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", resetSubject)
	m.SetBody("text/html", body)
	return m, nil
}

func renderResetBody(code string) (string, error) {
	var b strings.Builder
	err := resetTemplate.Execute(&b, struct {
		Code    string
		Minutes int
	}{Code: code, Minutes: ResetCodeTTLMinutes})
	if err != nil {
		return "", fmt.Errorf("render reset email: %w", err)
	}
	return b.String(), nil
}

// LogMailer writes reset codes to the application log instead of sending
// them. It is used when no SMTP credentials are configured.
type LogMailer struct{}

// SendResetCode logs the code.
func (LogMailer) SendResetCode(_ context.Context, to, code string) error {
	logger.Get().Infow("password reset code (email delivery disabled)", "to", to, "code", code)
	return nil
}
