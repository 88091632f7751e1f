package queue

import (
	"context"
	"errors"
	"time"

	"payment-orchestrator/internal/core/ports"

	"github.com/rs/zerolog"
)

// Worker drives webhook delivery: it consumes delivery jobs published to
// the webhook queue and, independently, periodically sweeps the
// database for due events that were never published or whose delayed
// republish never fired (e.g. after a restart).
type Worker struct {
	consumer    ports.QueueConsumer
	webhookSvc  ports.WebhookService
	queueName   string
	sweepEvery  time.Duration
	sweepLimit  int
	log         zerolog.Logger
}

// NewWorker creates a webhook delivery worker.
func NewWorker(consumer ports.QueueConsumer, webhookSvc ports.WebhookService, queueName string, log zerolog.Logger) *Worker {
	return &Worker{
		consumer:   consumer,
		webhookSvc: webhookSvc,
		queueName:  queueName,
		sweepEvery: 60 * time.Second,
		sweepLimit: 100,
		log:        log,
	}
}

// Run blocks, driving the consume loop and the sweep ticker until ctx is
// cancelled. Intended to be launched in its own goroutine from main.
func (w *Worker) Run(ctx context.Context) {
	go w.runConsumer(ctx)
	w.runSweeper(ctx)
}

func (w *Worker) runConsumer(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		err := w.consumer.Consume(ctx, w.queueName, w.handleJob)
		if err != nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("webhook consumer loop exited, retrying")
			time.Sleep(5 * time.Second)
		}
	}
}

func (w *Worker) handleJob(ctx context.Context, body []byte) error {
	eventID := string(body)
	if err := w.webhookSvc.Deliver(ctx, eventID); err != nil {
		if errors.Is(err, ports.ErrWebhookDeliveryFailed) {
			w.log.Warn().Err(err).Str("event_id", eventID).Msg("webhook delivery attempt failed, retry scheduled")
		} else {
			w.log.Error().Err(err).Str("event_id", eventID).Msg("webhook delivery job failed")
		}
		return err
	}
	return nil
}

func (w *Worker) runSweeper(ctx context.Context) {
	ticker := time.NewTicker(w.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := w.webhookSvc.SweepDue(ctx, w.sweepLimit)
			if err != nil {
				w.log.Error().Err(err).Msg("webhook sweep failed")
				continue
			}
			if n > 0 {
				w.log.Info().Int("count", n).Msg("swept due webhook events")
			}
		}
	}
}
