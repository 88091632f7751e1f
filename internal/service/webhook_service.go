package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/ports"
	"payment-orchestrator/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// HTTPClient is the subset of *http.Client the webhook service needs,
// kept as an interface so tests can substitute a fake transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// webhookService implements ports.WebhookService: durable, queue-backed
// outbound webhook delivery with HMAC-signed, timestamp-bound payloads.
type webhookService struct {
	repo          ports.WebhookRepository
	publisher     ports.QueuePublisher
	sigSvc        ports.SignatureService
	httpClient    HTTPClient
	signingSecret string
	queueName     string
	retryDelays   []time.Duration
	serverMode    string
	log           zerolog.Logger
}

// NewWebhookService creates a new webhookService. serverMode is the
// app's config.Server.Mode ("debug", "release", "test") and controls
// whether plain http webhook URLs are permitted.
func NewWebhookService(
	repo ports.WebhookRepository,
	publisher ports.QueuePublisher,
	sigSvc ports.SignatureService,
	httpClient HTTPClient,
	signingSecret string,
	queueName string,
	retryDelays []time.Duration,
	serverMode string,
	log zerolog.Logger,
) ports.WebhookService {
	return &webhookService{
		repo:          repo,
		publisher:     publisher,
		sigSvc:        sigSvc,
		httpClient:    httpClient,
		signingSecret: signingSecret,
		queueName:     queueName,
		retryDelays:   retryDelays,
		serverMode:    serverMode,
		log:           log,
	}
}

// EnqueueWebhook persists a pending event within the caller's
// transaction, then best-effort publishes it for immediate pickup. If
// the publish fails (broker unavailable, etc.) the periodic sweep picks
// the event up within its next cycle since the row's next_retry_at is
// unset.
func (s *webhookService) EnqueueWebhook(ctx context.Context, tx pgx.Tx, event *domain.WebhookEvent) error {
	if err := validateWebhookURL(event.URL, s.serverMode); err != nil {
		return apperror.ErrInvalidWebhookURL(err.Error())
	}

	if err := s.repo.Create(ctx, tx, event); err != nil {
		return fmt.Errorf("persist webhook event: %w", err)
	}

	if err := s.publisher.Publish(ctx, s.queueName, []byte(event.ID)); err != nil {
		s.log.Warn().Err(err).Str("event_id", event.ID).Msg("failed to publish webhook job, relying on sweep")
	}
	return nil
}

// Deliver attempts one delivery of eventID: signs the payload, POSTs it,
// and records the outcome. On failure it schedules the next retry
// (published with a delay) until attempts are exhausted.
func (s *webhookService) Deliver(ctx context.Context, eventID string) error {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("load webhook event: %w", err)
	}
	if event == nil {
		return fmt.Errorf("%w: %s", ports.ErrWebhookEventNotFound, eventID)
	}
	if event.Status == domain.WebhookStatusSent {
		return nil
	}

	body, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	ts := time.Now().Unix()
	signedPayload := fmt.Sprintf("%d.%s", ts, body)
	signature := s.sigSvc.Sign(s.signingSecret, []byte(signedPayload))
	header := fmt.Sprintf("t=%d,v1=%s", ts, signature)

	deliverErr := s.attemptDelivery(ctx, event, body, header)
	event.Attempts++
	now := time.Now().UTC()

	if deliverErr == nil {
		event.Status = domain.WebhookStatusSent
		event.SentAt = &now
		event.LastError = nil
		event.NextRetryAt = nil
		if err := s.repo.UpdateDeliveryResult(ctx, event); err != nil {
			return fmt.Errorf("record delivery success: %w", err)
		}
		return nil
	}

	errMsg := deliverErr.Error()
	event.LastError = &errMsg

	if event.ExhaustedRetries() {
		event.Status = domain.WebhookStatusFailed
		event.NextRetryAt = nil
		if err := s.repo.UpdateDeliveryResult(ctx, event); err != nil {
			return fmt.Errorf("record exhausted delivery: %w", err)
		}
		s.log.Error().Str("event_id", event.ID).Int("attempts", event.Attempts).Msg("webhook delivery exhausted retries")
		return fmt.Errorf("%w: %w", ports.ErrWebhookDeliveryFailed, deliverErr)
	}

	delay := s.delayFor(event.Attempts)
	nextRetry := now.Add(delay)
	event.NextRetryAt = &nextRetry
	event.Status = domain.WebhookStatusPending
	if err := s.repo.UpdateDeliveryResult(ctx, event); err != nil {
		return fmt.Errorf("record failed delivery: %w", err)
	}

	if err := s.publisher.PublishDelayed(ctx, s.queueName, []byte(event.ID), delay); err != nil {
		s.log.Warn().Err(err).Str("event_id", event.ID).Msg("failed to schedule retry, relying on sweep")
	}
	return fmt.Errorf("%w: %w", ports.ErrWebhookDeliveryFailed, deliverErr)
}

func (s *webhookService) delayFor(attempt int) time.Duration {
	if attempt <= 0 || attempt > len(s.retryDelays) {
		return s.retryDelays[len(s.retryDelays)-1]
	}
	return s.retryDelays[attempt-1]
}

func (s *webhookService) attemptDelivery(ctx context.Context, event *domain.WebhookEvent, body []byte, signatureHeader string) error {
	deliverCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(deliverCtx, http.MethodPost, event.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Signature", signatureHeader)
	req.Header.Set("X-Webhook-Id", event.ID)
	req.Header.Set("X-Event-Type", event.EventType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delivery request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// SweepDue republishes every event whose retry is due but was never
// picked up (broker hiccup, process restart between schedule and fire).
func (s *webhookService) SweepDue(ctx context.Context, limit int) (int, error) {
	due, err := s.repo.ListDue(ctx, time.Now().Unix(), limit)
	if err != nil {
		return 0, fmt.Errorf("list due webhook events: %w", err)
	}
	count := 0
	for _, event := range due {
		if err := s.publisher.Publish(ctx, s.queueName, []byte(event.ID)); err != nil {
			s.log.Error().Err(err).Str("event_id", event.ID).Msg("sweep publish failed")
			continue
		}
		count++
	}
	return count, nil
}

// blockedHostSuffixes denies resolution-independent local/internal
// naming conventions in addition to the IP-range checks below.
var blockedHostSuffixes = []string{".local", ".internal", ".localdomain"}

// validateWebhookURL enforces https (http is only permitted when
// serverMode is "debug" or "test") and rejects targets that resolve to
// loopback, link-local, private, or other non-routable addresses,
// preventing a merchant-supplied webhook_url from being used to probe
// internal infrastructure (SSRF).
func validateWebhookURL(rawURL, serverMode string) error {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return fmt.Errorf("not a valid URL")
	}
	allowInsecure := serverMode == "debug" || serverMode == "test"
	if u.Scheme != "https" && !(allowInsecure && u.Scheme == "http") {
		if allowInsecure {
			return fmt.Errorf("scheme must be http or https")
		}
		return fmt.Errorf("scheme must be https")
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("missing host")
	}
	lowerHost := strings.ToLower(host)
	if lowerHost == "localhost" {
		return fmt.Errorf("localhost is not permitted")
	}
	for _, suffix := range blockedHostSuffixes {
		if strings.HasSuffix(lowerHost, suffix) {
			return fmt.Errorf("internal hostname suffix %q is not permitted", suffix)
		}
	}

	if ip := net.ParseIP(host); ip != nil {
		if err := checkIPNotInternal(ip); err != nil {
			return err
		}
		return nil
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		// Unresolvable host is rejected rather than allowed through:
		// a webhook endpoint that cannot be resolved cannot be delivered to.
		return fmt.Errorf("could not resolve host: %w", err)
	}
	for _, ip := range ips {
		if err := checkIPNotInternal(ip); err != nil {
			return err
		}
	}
	return nil
}

func checkIPNotInternal(ip net.IP) error {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
		return fmt.Errorf("address %s is not permitted", ip.String())
	}
	// 169.254.169.254 and similarly-scoped cloud metadata endpoints fall
	// under IsLinkLocalUnicast already; this guards IPv6 metadata aliases.
	if ip.Equal(net.ParseIP("fd00:ec2::254")) {
		return fmt.Errorf("address %s is not permitted", ip.String())
	}
	return nil
}
