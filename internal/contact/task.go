package contact

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cryptocoin/app/pkg/mailer"
)

// Task delivers contact notifications to the site inbox.
type Task struct {
	sender mailer.Sender
	inbox  string
	log    *slog.Logger
}

// NewTask creates the notification worker. sender may be nil when no
// email provider is configured; submissions are then logged and
// dropped, which keeps local development working without credentials.
func NewTask(sender mailer.Sender, inbox string, log *slog.Logger) *Task {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Task{sender: sender, inbox: inbox, log: log}
}

// Name implements the task contract.
func (t *Task) Name() string { return TaskName }

// Handle renders and sends the notification email.
func (t *Task) Handle(ctx context.Context, msg Message) error {
	if t.sender == nil || t.inbox == "" {
		t.log.InfoContext(ctx, "contact submission received, mail delivery not configured",
			slog.String("name", msg.Name),
			slog.String("email", msg.Email))
		return nil
	}

	body := fmt.Sprintf(
		"## New contact form submission\n\n**From:** %s (%s)\n\n%s\n",
		msg.Name, msg.Email, msg.Message,
	)
	html, err := mailer.RenderMarkdown(body)
	if err != nil {
		return err
	}

	email := &mailer.Email{
		Subject: fmt.Sprintf("Contact form: %s", msg.Name),
		HTML:    html,
		Text:    body,
		ReplyTo: msg.Email,
		To:      []string{t.inbox},
	}
	if err := t.sender.Send(ctx, email); err != nil {
		return fmt.Errorf("send contact notification: %w", err)
	}

	t.log.InfoContext(ctx, "contact notification sent", slog.String("email", msg.Email))
	return nil
}
