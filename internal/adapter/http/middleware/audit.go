package middleware

import (
	"encoding/json"
	"time"

	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/ports"
	"payment-orchestrator/pkg/idgen"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// AuditLog creates a middleware that records an audit entry for every
// successful write request, in its own short-lived transaction. The
// mutation itself was already committed by the handler, so a failure
// here never blocks the response already sent to the caller — it is
// logged and otherwise ignored.
func AuditLog(auditSvc ports.AuditService, transactor ports.DBTransactor, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		method := c.Request.Method
		if method == "GET" || method == "HEAD" || method == "OPTIONS" {
			return
		}

		action, resourceType := mapPathToAction(c.FullPath(), method)
		if action == "" {
			return
		}

		var merchantID *string
		if mid, exists := c.Get(CtxMerchantID); exists {
			if id, ok := mid.(string); ok {
				merchantID = &id
			}
		}
		actor := "merchant"
		if merchantID == nil {
			actor = "operator"
		}

		details, _ := json.Marshal(map[string]any{
			"method": method,
			"path":   c.Request.URL.Path,
			"status": status,
		})

		entry := &domain.AuditLog{
			ID:           idgen.GenerateID(),
			MerchantID:   merchantID,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   c.Param("id"),
			NewValue:     string(details),
			Actor:        actor,
			ActorType:    actor,
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
			CreatedAt:    time.Now().UTC(),
		}

		err := transactor.WithTx(c.Request.Context(), func(tx pgx.Tx) error {
			return auditSvc.Record(c.Request.Context(), tx, entry)
		})
		if err != nil {
			log.Warn().Err(err).Str("action", string(action)).Msg("failed to record audit entry")
		}
	}
}

func mapPathToAction(path, method string) (domain.AuditAction, string) {
	switch {
	case path == "/api/v1/payments" && method == "POST":
		return domain.AuditActionPaymentCreated, "payment"
	case path == "/api/v1/payments/:id/refunds" && method == "POST":
		return domain.AuditActionRefundCreated, "refund"
	}
	return "", ""
}
