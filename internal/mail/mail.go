// Package mail delivers transactional email through a configurable
// transport.
package mail

import (
	"complaintdesk/backend/internal/config"
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"time"
)

// Message is a single outgoing email.
type Message struct {
	To      string
	ToName  string
	Subject string
	Lines   []string
}

// Text renders the message body as plain text.
func (m Message) Text() string {
	return strings.Join(m.Lines, "\n\n")
}

// HTML renders the message body as a sequence of paragraphs.
func (m Message) HTML() string {
	var b strings.Builder
	for _, line := range m.Lines {
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(line))
		b.WriteString("</p>")
	}
	return b.String()
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// PasswordResetOTP builds the message carrying a password reset code.
func PasswordResetOTP(to, toName, otp string, expiry time.Duration) Message {
	return Message{
		To:      to,
		ToName:  toName,
		Subject: "Your Password Reset OTP Code",
		Lines: []string{
			"You are receiving this email because we received a password reset request for your account.",
			"Your One-Time Password (OTP) is: " + otp,
			fmt.Sprintf("This OTP will expire in %d minutes.", int(expiry/time.Minute)),
			"If you did not request a password reset, no further action is required.",
		},
	}
}

// LogMailer writes messages to the application log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	log.Printf("INFO: mail to %s: %s\n%s", msg.To, msg.Subject, msg.Text())
	return nil
}

// New returns the mailer selected by cfg.MailDriver.
func New(cfg *config.Config) (Mailer, error) {
	switch cfg.MailDriver {
	case "smtp":
		if cfg.MailUsername == "" || cfg.MailPassword == "" {
			return nil, fmt.Errorf("smtp mailer requires MAIL_USERNAME and MAIL_PASSWORD")
		}
		return &SMTPMailer{
			Host:     cfg.MailHost,
			Port:     cfg.MailPort,
			Username: cfg.MailUsername,
			Password: cfg.MailPassword,
			From:     cfg.MailFrom,
			FromName: cfg.MailFromName,
		}, nil
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("sendgrid mailer requires SENDGRID_API_KEY")
		}
		return NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom, cfg.MailFromName), nil
	case "log", "":
		return LogMailer{}, nil
	default:
		return nil, fmt.Errorf("unsupported mail driver %q", cfg.MailDriver)
	}
}
