package handler

import (
	"net/http"
	"time"

	"payment-orchestrator/internal/adapter/http/dto"
	"payment-orchestrator/internal/core/ports"
	"payment-orchestrator/pkg/apperror"
	"payment-orchestrator/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles the internal ops login endpoint.
type AuthHandler struct {
	authSvc ports.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc ports.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login handles POST /api/v1/ops/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	token, expiry, err := h.authSvc.Login(c.Request.Context(), req.OperatorID, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiry.Unix(),
	})
}

// HealthCheck handles GET /health — a deep health check verifying every
// registered dependency (database, redis, ...).
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := make(map[string]string)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				checks[checker.Name()] = "unhealthy: " + err.Error()
				allHealthy = false
			} else {
				checks[checker.Name()] = "healthy"
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":    status,
			"checks":    checks,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// Readiness handles GET /ready — a shallow check that the process can
// accept traffic: every dependency check passes and every provider's
// circuit breaker is closed (open and half-open both count as not ready).
func Readiness(breakers ports.CircuitBreakerFactory, checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ready := true
		checks := make(map[string]string)

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				checks[checker.Name()] = "unhealthy: " + err.Error()
				ready = false
			} else {
				checks[checker.Name()] = "healthy"
			}
		}

		openBreakers := make([]string, 0)
		if breakers != nil {
			for name, b := range breakers.All() {
				if b.State() != "closed" {
					openBreakers = append(openBreakers, name)
					ready = false
				}
			}
		}

		status := "ready"
		httpCode := http.StatusOK
		if !ready {
			status = "not_ready"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":        status,
			"checks":        checks,
			"open_breakers": openBreakers,
			"timestamp":     time.Now().UTC().Format(time.RFC3339),
		})
	}
}
