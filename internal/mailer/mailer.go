package mailer

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"gopkg.in/gomail.v2"
)

// Config holds SMTP settings for outgoing mail.
type Config struct {
	Host     string `env:"SMTP_HOST,required"`
	Port     int    `env:"SMTP_PORT"     envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM,required"`
}

// Mailer sends transactional email over SMTP. Sends are synchronous; a
// failed send is returned to the caller, never swallowed.
type Mailer struct {
	config Config
	dialer *gomail.Dialer
}

// New creates a Mailer with the given configuration.
func New(cfg Config) *Mailer {
	return &Mailer{
		config: cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// NewFromEnv creates a Mailer configured from SMTP_* environment variables.
func NewFromEnv() (*Mailer, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse mailer env: %w", err)
	}
	return New(cfg), nil
}

// SendSignupConfirmation sends the welcome email after a successful signup.
func (m *Mailer) SendSignupConfirmation(email string) error {
	body := "<h3>Signup confirmation</h3><p>Your account has been created.</p>"
	return m.send(email, "Welcome!", body)
}

// SendPasswordResetCode sends the reset email containing the confirmation
// URL and the one-time code.
func (m *Mailer) SendPasswordResetCode(email, url, code string) error {
	body := fmt.Sprintf(`
		<a href="%s">Reset password</a>
		<p>Secret code <strong>%s</strong></p>
		<p>The code will expire in 15 minutes.</p>
	`, url, code)
	return m.send(email, "Password reset", body)
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
