package middleware

import (
	"net/http"
	"strings"
	"time"

	"payment-orchestrator/internal/core/ports"
	"payment-orchestrator/pkg/apperror"
	"payment-orchestrator/pkg/idgen"
	"payment-orchestrator/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	// HeaderAPIKey carries the merchant's plaintext API key.
	HeaderAPIKey = "X-API-Key"

	// Context keys
	CtxMerchantID = "merchant_id"
	CtxAPIKey     = "api_key"
	CtxOperatorID = "operator_id"
)

// APIKeyAuth creates a middleware that resolves the X-API-Key header to a
// merchant via its hashed form, rejecting missing, unknown, or inactive
// keys before the request reaches a handler.
func APIKeyAuth(apiKeyRepo ports.ApiKeyRepository, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		plaintext := c.GetHeader(HeaderAPIKey)
		if plaintext == "" {
			response.Error(c, apperror.ErrMissingAPIKey())
			c.Abort()
			return
		}

		key, err := apiKeyRepo.GetByHashedKey(c.Request.Context(), idgen.HashAPIKey(plaintext))
		if err != nil {
			log.Error().Err(err).Msg("failed to look up api key")
			response.Error(c, apperror.InternalError(err))
			c.Abort()
			return
		}
		if key == nil {
			response.Error(c, apperror.ErrInvalidAPIKey())
			c.Abort()
			return
		}
		if !key.Active {
			response.Error(c, apperror.ErrKeyInactive())
			c.Abort()
			return
		}

		go func() {
			if err := apiKeyRepo.TouchLastUsed(c.Copy().Request.Context(), key.ID); err != nil {
				log.Warn().Err(err).Str("api_key_id", key.ID).Msg("failed to record api key usage")
			}
		}()

		c.Set(CtxMerchantID, key.MerchantID)
		c.Set(CtxAPIKey, key)
		c.Next()
	}
}

// RequirePermission creates a middleware that rejects a request whose
// API key lacks perm. Must run after APIKeyAuth.
func RequirePermission(perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		keyVal, exists := c.Get(CtxAPIKey)
		if !exists {
			response.Error(c, apperror.ErrMissingAPIKey())
			c.Abort()
			return
		}
		key, ok := keyVal.(apiKeyCarrier)
		if ok && !key.HasPermission(perm) {
			response.Error(c, apperror.ErrMissingPermission(perm))
			c.Abort()
			return
		}
		c.Next()
	}
}

// apiKeyCarrier is satisfied by domain.ApiKey; declared locally to avoid
// importing domain solely for the type assertion above.
type apiKeyCarrier interface {
	HasPermission(perm string) bool
}

// JWTAuth creates a middleware that validates the bearer token on the
// internal ops surface and exposes the operator id in context.
func JWTAuth(tokenSvc ports.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		claims, err := tokenSvc.Validate(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		c.Set(CtxOperatorID, claims.OperatorID)
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error_code": "SYS_000",
					"message":    "internal server error",
				})
			}
		}()
		c.Next()
	}
}
