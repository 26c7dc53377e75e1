package mailer

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v3"
)

// Mailer sends transactional email through Resend. Like push, email is a
// best-effort side channel: producers fire it from the background runner and
// never fail a mutation over it.
type Mailer struct {
	client *resend.Client
	from   string
}

// New builds a mailer. An empty API key disables sending; Send then becomes a
// logged no-op so deployments without email configured need no special cases.
func New(apiKey, from string) *Mailer {
	if apiKey == "" {
		log.Println("Mailer disabled: no RESEND_API_KEY set")
		return &Mailer{from: from}
	}
	return &Mailer{client: resend.NewClient(apiKey), from: from}
}

// Send delivers one HTML email.
func (m *Mailer) Send(ctx context.Context, to, subject, html string) error {
	if m.client == nil {
		log.Printf("mailer disabled, skipping email to %s", to)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Center App <%s>", m.from),
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}
	if _, err := m.client.Emails.Send(params); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}
