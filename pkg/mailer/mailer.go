// Package mailer defines the outbound email abstraction: a Sender
// interface implemented per provider (see the resend subpackage) and a
// markdown-to-HTML renderer for message bodies.
package mailer

import (
	"context"
	"errors"
	"fmt"
)

// Errors.
var (
	ErrNoRecipient  = errors.New("mailer: recipient required")
	ErrRenderFailed = errors.New("mailer: failed to render message body")
)

// Email represents a fully-prepared email message ready for sending.
type Email struct {
	Subject string
	HTML    string
	Text    string
	From    string // empty = provider default sender
	ReplyTo string
	To      []string
}

// Sender delivers a prepared email through a provider.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

// Recipient formats a name and email into RFC 5322 address format:
// "Name <email>", or just the email when no name is given.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
