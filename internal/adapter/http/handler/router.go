package handler

import (
	"payment-orchestrator/internal/adapter/http/middleware"
	"payment-orchestrator/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	PaymentSvc     ports.PaymentService
	RefundSvc      ports.RefundService
	WebhookSvc     ports.WebhookService
	IdempotencySvc ports.IdempotencyService
	ApiKeyRepo     ports.ApiKeyRepository
	Providers      ports.ProviderRegistry
	PaymentRepo    ports.PaymentRepository
	TxnRepo        ports.TransactionRepository
	Transactor     ports.DBTransactor
	AuditSvc       ports.AuditService
	RateLimiter    ports.RateLimiter // nil = rate limiting disabled
	TokenSvc       ports.TokenService
	Breakers       ports.CircuitBreakerFactory
	WebhookSecret  string
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Audit logging (after response, for every mutating merchant route)
	if deps.AuditSvc != nil && deps.Transactor != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc, deps.Transactor, deps.Logger))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	r.GET("/ready", Readiness(deps.Breakers, deps.HealthCheckers...))

	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// Helper: rate limiter middleware if a limiter is configured, else noop.
	rl := func() gin.HandlerFunc {
		if deps.RateLimiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimiter, deps.Logger)
	}()

	apiKeyAuth := middleware.APIKeyAuth(deps.ApiKeyRepo, deps.Logger)
	idempotency := middleware.Idempotency(deps.IdempotencySvc, deps.Logger)

	v1 := r.Group("/api/v1")

	// --- Internal ops surface (JWT) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	ops := v1.Group("/ops")
	{
		ops.POST("/login", rl, authHandler.Login)
	}

	// --- Merchant-facing API (API key) ---
	paymentHandler := NewPaymentHandler(deps.PaymentSvc)
	refundHandler := NewRefundHandler(deps.RefundSvc, deps.PaymentSvc)

	payments := v1.Group("/payments", apiKeyAuth, rl)
	{
		payments.POST("", idempotency, paymentHandler.CreatePayment)
		payments.GET("", paymentHandler.ListPayments)
		payments.GET("/:id", paymentHandler.GetPayment)
		payments.GET("/:id/refundable", paymentHandler.GetRefundableSummary)
		payments.POST("/:id/refunds", idempotency, refundHandler.CreateRefund)
	}

	refunds := v1.Group("/refunds", apiKeyAuth, rl)
	{
		refunds.GET("/:id", refundHandler.GetRefund)
	}

	// --- Provider webhook reconciliation (signature-authenticated, not API key) ---
	webhookHandler := NewWebhookHandler(deps.Providers, deps.PaymentRepo, deps.TxnRepo, deps.Transactor, deps.WebhookSvc, deps.AuditSvc, deps.WebhookSecret, deps.Logger)
	webhooks := v1.Group("/webhooks")
	{
		webhooks.POST("/:provider", webhookHandler.HandleProviderWebhook)
	}

	return r
}
