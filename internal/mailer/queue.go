package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
)

// Publisher is the part of the RabbitMQ client QueueMailer needs.
type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

// QueueMailer enqueues messages; Send returns once the broker accepted the
// publish, not when the email is delivered.
type QueueMailer struct {
	publisher Publisher
	queue     string
}

// NewQueueMailer creates a QueueMailer publishing to queue.
func NewQueueMailer(publisher Publisher, queue string) *QueueMailer {
	return &QueueMailer{publisher: publisher, queue: queue}
}

func (m *QueueMailer) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: encode message: %v", ErrDelivery, err)
	}
	if err := m.publisher.Publish(ctx, m.queue, body); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

// Relay decodes queued messages and forwards them to a delivering Mailer.
// Its Handle method is the mail worker's consumer callback.
type Relay struct {
	next   Mailer
	logger *log.Logger
}

// NewRelay creates a Relay delivering through next.
func NewRelay(next Mailer, logger *log.Logger) *Relay {
	return &Relay{next: next, logger: logger}
}

// Handle delivers one queued message body.
func (r *Relay) Handle(ctx context.Context, body []byte) error {
	var msg Message
	if err := json.Unmarshal(body, &msg); err != nil {
		r.logger.Error("dropping malformed mail message", "err", err)
		return fmt.Errorf("decode queued message: %w", err)
	}
	if msg.To == "" {
		return fmt.Errorf("queued message has no recipient")
	}
	return r.next.Send(ctx, msg)
}
