package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Client owns a connection and channel to the broker and declares the
// queues it publishes to and consumes from as durable.
type Client struct {
	conn *amqp.Connection
	chn  *amqp.Channel
	log  zerolog.Logger

	mu        sync.Mutex
	declared  map[string]struct{}
	prefetch  int
}

// NewClient dials the broker, opens a channel, and verifies connectivity.
// prefetch bounds how many unacked messages a single consumer holds at
// once, per §4.10's prefetch=1 requirement.
func NewClient(url string, prefetch int, log zerolog.Logger) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	chn, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	log.Info().Msg("amqp connection established")

	return &Client{
		conn:     conn,
		chn:      chn,
		log:      log,
		declared: make(map[string]struct{}),
		prefetch: prefetch,
	}, nil
}

// Close tears down the channel and connection.
func (c *Client) Close() error {
	if err := c.chn.Close(); err != nil {
		return err
	}
	return c.conn.Close()
}

// NotifyClose returns the channel amqp091-go closes when the underlying
// connection drops. Nothing in this package subscribes to it, so a
// dropped connection is not re-established automatically.
func (c *Client) NotifyClose() chan *amqp.Error {
	ch := make(chan *amqp.Error, 1)
	c.conn.NotifyClose(ch)
	return ch
}

func (c *Client) ensureQueue(queueName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.declared[queueName]; ok {
		return nil
	}
	_, err := c.chn.QueueDeclare(
		queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue %q: %w", queueName, err)
	}
	c.declared[queueName] = struct{}{}
	return nil
}

// Publish sends a persistent message to queueName, surviving broker
// restart.
func (c *Client) Publish(ctx context.Context, queueName string, body []byte) error {
	if err := c.ensureQueue(queueName); err != nil {
		return err
	}
	err := c.chn.PublishWithContext(
		ctx,
		"",        // exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish to %q: %w", queueName, err)
	}
	return nil
}

// PublishDelayed schedules delivery after delay. No delayed-exchange
// plugin is assumed present, so the delay is held in-process via a timer
// goroutine rather than a broker-side scheduling feature; the message is
// only handed to the broker once the delay elapses.
func (c *Client) PublishDelayed(ctx context.Context, queueName string, body []byte, delay time.Duration) error {
	if delay <= 0 {
		return c.Publish(ctx, queueName, body)
	}
	// Detached from ctx: a request-scoped context would be cancelled long
	// before delay elapses, silently dropping the message.
	go func() {
		time.Sleep(delay)
		if err := c.Publish(context.Background(), queueName, body); err != nil {
			c.log.Error().Err(err).Str("queue", queueName).Msg("delayed publish failed")
		}
	}()
	return nil
}
