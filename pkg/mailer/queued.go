package mailer

import (
	"context"
	"fmt"

	"github.com/noah-isme/school-site-api/pkg/jobs"
)

const mailJobKind = "mail"

// Enqueuer accepts background jobs.
type Enqueuer interface {
	Enqueue(job jobs.Job) error
}

// QueuedMailer hands messages to a job queue so form submissions do not wait
// on the mail provider. Delivery errors surface in the queue logs.
type QueuedMailer struct {
	queue Enqueuer
}

// NewQueuedMailer wraps queue.
func NewQueuedMailer(queue Enqueuer) *QueuedMailer {
	return &QueuedMailer{queue: queue}
}

// Send implements Mailer. It only fails when the message cannot be queued.
func (m *QueuedMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	return m.queue.Enqueue(jobs.Job{Kind: mailJobKind, Payload: msg})
}

// DeliveryHandler returns a job handler sending queued messages through m.
func DeliveryHandler(m Mailer) jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		msg, ok := job.Payload.(Message)
		if !ok {
			return fmt.Errorf("job %s: unexpected payload %T", job.ID, job.Payload)
		}
		return m.Send(ctx, msg)
	}
}
