// Package resend implements mailer.Sender using the Resend API.
package resend

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/cryptocoin/app/pkg/mailer"
)

// Config holds Resend provider configuration.
type Config struct {
	APIKey      string `env:"RESEND_API_KEY"`
	SenderEmail string `env:"RESEND_FROM_EMAIL"`
	SenderName  string `env:"RESEND_FROM_NAME"`
}

// Configured reports whether an API key is present.
func (c Config) Configured() bool {
	return c.APIKey != ""
}

// Sender implements mailer.Sender using the Resend API.
type Sender struct {
	client *resend.Client
	config Config
}

// New creates a new Resend sender.
func New(cfg Config) *Sender {
	return &Sender{
		client: resend.NewClient(cfg.APIKey),
		config: cfg,
	}
}

// Send implements mailer.Sender.
func (s *Sender) Send(ctx context.Context, email *mailer.Email) error {
	if len(email.To) == 0 {
		return mailer.ErrNoRecipient
	}

	from := email.From
	if from == "" {
		from = mailer.Recipient(s.config.SenderName, s.config.SenderEmail)
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
		ReplyTo: email.ReplyTo,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, req); err != nil {
		return fmt.Errorf("resend: failed to send email: %w", err)
	}

	return nil
}
