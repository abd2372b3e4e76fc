// Package notify hands email jobs to the delivery pipeline.
package notify

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blog-engagement/pkg/mailer"
)

// Publisher is the part of helpers.RabbitPublisher the queue notifier needs.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

var ErrInvalidJob = errors.New("email job is missing recipient, subject or text")

// QueueNotifier publishes jobs for cmd/email_worker to send through Mailgun.
type QueueNotifier struct {
	Publisher Publisher
	Logger    *logrus.Logger
}

func NewQueueNotifier(p Publisher, logger *logrus.Logger) *QueueNotifier {
	return &QueueNotifier{Publisher: p, Logger: logger}
}

func (n *QueueNotifier) Send(ctx context.Context, job mailer.EmailJob) error {
	if !job.Valid() {
		return ErrInvalidJob
	}
	if err := n.Publisher.PublishJSON(ctx, job); err != nil {
		return err
	}
	n.Logger.WithFields(logrus.Fields{"kind": job.Kind}).Debug("email job queued")
	return nil
}

// LogNotifier only logs jobs. Used when MAIL_SEND_ENABLED is false or no
// broker is configured.
type LogNotifier struct {
	Logger *logrus.Logger
}

func (n LogNotifier) Send(_ context.Context, job mailer.EmailJob) error {
	if !job.Valid() {
		return ErrInvalidJob
	}
	n.Logger.WithFields(logrus.Fields{"kind": job.Kind, "to": job.To, "subject": job.Subject}).
		Info("email delivery disabled, job dropped")
	return nil
}
