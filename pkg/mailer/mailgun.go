package mailer

import (
	"context"
	"errors"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// SendTimeout bounds a single Mailgun API call.
const SendTimeout = 10 * time.Second

var ErrInvalidJob = errors.New("mailer: job needs a recipient, subject and body")

// Mailgun delivers EmailJobs through the Mailgun HTTP API.
type Mailgun struct {
	client mg.Mailgun
	Sender string
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), Sender: sender}
}

// Send delivers one job and returns the Mailgun message id.
func (m *Mailgun) Send(ctx context.Context, job EmailJob) (string, error) {
	if !job.Valid() {
		return "", ErrInvalidJob
	}
	msg := m.client.NewMessage(m.Sender, job.Subject, job.Text, job.To)
	if job.HTML != "" {
		msg.SetHtml(job.HTML)
	}
	if job.Kind != "" {
		_ = msg.AddTag(job.Kind)
	}

	c, cancel := context.WithTimeout(ctx, SendTimeout)
	defer cancel()
	_, id, err := m.client.Send(c, msg)
	return id, err
}
