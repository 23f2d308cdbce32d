package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	amqp "github.com/streadway/amqp"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *log.Logger
	mu      sync.Mutex // amqp.Channel is not safe for concurrent publishes
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
	// Queues are declared durable when the client connects.
	Queues []string
}

// NewClient creates a new RabbitMQ client.
// It connects to RabbitMQ, opens a channel and declares the configured queues.
func NewClient(cfg Config, logger *log.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	for _, q := range cfg.Queues {
		if err := declare(ch, q); err != nil {
			ch.Close()
			conn.Close()
			return nil, err
		}
	}

	logger.Info("RabbitMQ client connected", "queues", cfg.Queues)

	return &Client{
		conn:    conn,
		channel: ch,
		logger:  logger,
	}, nil
}

func declare(ch *amqp.Channel, queue string) error {
	_, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", queue, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends a persistent JSON message to queue through the default exchange.
func (c *Client) Publish(ctx context.Context, queue string, body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.channel.Publish(
		"",    // default exchange
		queue, // routing key: the queue name
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Debug("published message", "queue", queue, "bytes", len(body))
	return nil
}

// Handler processes one delivery body. A nil error acks the message; an
// error nacks it without requeueing so a poison message cannot loop.
type Handler func(ctx context.Context, body []byte) error

// Consume starts a goroutine delivering messages from queue to handler until
// ctx is canceled or the channel closes.
func (c *Client) Consume(ctx context.Context, queue string, handler Handler) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	if err := declare(c.channel, queue); err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue,
		"",    // consumer tag
		false, // auto-ack: messages are acked manually
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("waiting for messages", "queue", queue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Warn("delivery channel closed", "queue", queue)
					return
				}
				c.dispatch(ctx, msg, handler)
			}
		}
	}()

	return nil
}

func (c *Client) dispatch(ctx context.Context, msg amqp.Delivery, handler Handler) {
	if err := handler(ctx, msg.Body); err != nil {
		c.logger.Error("error processing message", "tag", msg.DeliveryTag, "id", msg.MessageId, "err", err)
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.logger.Error("error nacking message", "tag", msg.DeliveryTag, "err", nackErr)
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		c.logger.Error("error acking message", "tag", msg.DeliveryTag, "err", ackErr)
	}
}
