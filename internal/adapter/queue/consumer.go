package queue

import (
	"context"
	"errors"
	"fmt"

	"payment-orchestrator/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Consume implements ports.QueueConsumer. It sets Qos(prefetch=1) so a
// single slow handler doesn't starve other consumers on the same
// connection, and acks/nacks manually: a missing row is acked and
// discarded, a delivery (transport) failure is nacked without requeue
// since the persistence-driven retry schedule already owns the next
// attempt, and any other handler error or recovered panic is nacked
// with requeue.
func (c *Client) Consume(ctx context.Context, queueName string, handler func(ctx context.Context, body []byte) error) error {
	if err := c.ensureQueue(queueName); err != nil {
		return err
	}
	if err := c.chn.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := c.chn.Consume(
		queueName,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("consume %q: %w", queueName, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("amqp delivery channel closed for %q", queueName)
			}
			c.handleDelivery(ctx, msg, handler)
		}
	}
}

func (c *Client) handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(ctx context.Context, body []byte) error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("webhook consumer handler panicked, requeueing")
			_ = msg.Nack(false, true)
		}
	}()

	err := handler(ctx, msg.Body)
	switch {
	case err == nil:
		_ = msg.Ack(false)
	case errors.Is(err, ports.ErrWebhookEventNotFound):
		c.log.Warn().Err(err).Msg("webhook consumer: event row missing, discarding message")
		_ = msg.Ack(false)
	case errors.Is(err, ports.ErrWebhookDeliveryFailed):
		c.log.Warn().Err(err).Msg("webhook consumer: delivery failed, relying on scheduled retry")
		_ = msg.Nack(false, false)
	default:
		c.log.Error().Err(err).Msg("webhook consumer handler failed")
		_ = msg.Nack(false, true)
	}
}
