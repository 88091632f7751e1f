package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"payment-orchestrator/config"
	httpHandler "payment-orchestrator/internal/adapter/http/handler"
	"payment-orchestrator/internal/adapter/provider"
	"payment-orchestrator/internal/adapter/queue"
	pgStorage "payment-orchestrator/internal/adapter/storage/postgres"
	redisStorage "payment-orchestrator/internal/adapter/storage/redis"
	"payment-orchestrator/internal/core/breaker"
	"payment-orchestrator/internal/core/ports"
	"payment-orchestrator/internal/service"
	"payment-orchestrator/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("starting payment orchestrator")

	ctx := context.Background()

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgresql")
	}
	defer pool.Close()

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	queueClient, err := queue.NewClient(cfg.Queue.URL, cfg.Queue.PrefetchCount, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to amqp broker")
	}
	defer queueClient.Close()

	// --- Repositories & transactor ---
	paymentRepo := pgStorage.NewPaymentRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	refundRepo := pgStorage.NewRefundRepo(pool)
	idempotencyRepo := pgStorage.NewIdempotencyRepo(pool)
	webhookRepo := pgStorage.NewWebhookRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	apiKeyRepo := pgStorage.NewApiKeyRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// --- Redis-backed adapters ---
	idempotencyCache := redisStorage.NewIdempotencyCache(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb, cfg.RateLimit)

	// --- Core crypto/signing services ---
	sigSvc := service.NewHMACSignatureService()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// --- Providers & circuit breakers ---
	providerRegistry := provider.NewRegistry()
	providerRegistry.Register(provider.NewStripeSim())
	providerRegistry.Register(provider.NewPaypalSim())

	breakerFactory := breaker.NewFactory(breaker.Config{
		Timeout:         cfg.Breaker.Timeout,
		ErrorThreshold:  cfg.Breaker.ErrorThreshold,
		ResetTimeout:    cfg.Breaker.ResetTimeout,
		VolumeThreshold: cfg.Breaker.VolumeThreshold,
	})

	// --- Durable queue-backed webhook delivery ---
	webhookSvc := service.NewWebhookService(
		webhookRepo,
		queueClient,
		sigSvc,
		&http.Client{Timeout: cfg.Webhook.DeliveryTimeout},
		cfg.Webhook.SigningSecret,
		cfg.Queue.WebhookQueueName,
		cfg.Webhook.RetryDelays,
		cfg.Server.Mode,
		log,
	)

	// --- Business services ---
	auditSvc := service.NewAuditService(auditRepo, log)
	paymentSvc := service.NewPaymentService(paymentRepo, txRepo, refundRepo, webhookSvc, providerRegistry, breakerFactory, transactor, auditSvc, log)
	refundSvc := service.NewRefundService(paymentRepo, refundRepo, txRepo, webhookSvc, providerRegistry, breakerFactory, transactor, auditSvc, log)
	idempotencySvc := service.NewIdempotencyService(idempotencyCache, idempotencyRepo, transactor, cfg.Idempotency.TTL, log)
	authSvc := service.NewAuthService(cfg.Operator.ID, cfg.Operator.PasswordHash, hashSvc, tokenSvc)

	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("openapi spec loaded for swagger ui at /swagger")
	} else {
		log.Warn().Err(err).Msg("openapi spec not found, swagger ui will be unavailable")
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		PaymentSvc:     paymentSvc,
		RefundSvc:      refundSvc,
		WebhookSvc:     webhookSvc,
		IdempotencySvc: idempotencySvc,
		ApiKeyRepo:     apiKeyRepo,
		Providers:      providerRegistry,
		PaymentRepo:    paymentRepo,
		TxnRepo:        txRepo,
		Transactor:     transactor,
		AuditSvc:       auditSvc,
		RateLimiter:    rateLimitStore,
		TokenSvc:       tokenSvc,
		Breakers:       breakerFactory,
		WebhookSecret:  cfg.Providers.WebhookSecret,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// --- Webhook delivery worker (queue consumer + due-event sweeper) ---
	workerCtx, cancelWorker := context.WithCancel(context.Background())
	worker := queue.NewWorker(queueClient, webhookSvc, cfg.Queue.WebhookQueueName, log)
	go worker.Run(workerCtx)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info().Msg("shutdown signal received")
	case <-transactor.ShutdownCh():
		log.Error().Msg("database connection exhausted, shutting down")
	}

	cancelWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
