package postgres

import (
	"context"
	"fmt"

	"payment-orchestrator/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// AuditRepo implements ports.AuditRepository, the append-only audit trail.
type AuditRepo struct {
	pool Pool
}

// NewAuditRepo creates a new AuditRepo.
func NewAuditRepo(pool Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

const auditColumns = `id, merchant_id, action, resource_type, resource_id, old_value, new_value,
	actor, actor_type, ip_address, user_agent, created_at`

// Create inserts an audit entry within the caller's transaction, so it
// commits atomically with the mutation it describes.
func (r *AuditRepo) Create(ctx context.Context, tx pgx.Tx, entry *domain.AuditLog) error {
	query := `INSERT INTO audit_logs (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := tx.Exec(ctx, query,
		entry.ID, entry.MerchantID, entry.Action, entry.ResourceType, entry.ResourceID,
		entry.OldValue, entry.NewValue, entry.Actor, entry.ActorType, entry.IPAddress,
		entry.UserAgent, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListByResource returns every audit entry recorded against a resource,
// oldest first.
func (r *AuditRepo) ListByResource(ctx context.Context, resourceType, resourceID string) ([]domain.AuditLog, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, resourceType, resourceID)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var result []domain.AuditLog
	for rows.Next() {
		entry := domain.AuditLog{}
		if err := rows.Scan(
			&entry.ID, &entry.MerchantID, &entry.Action, &entry.ResourceType, &entry.ResourceID,
			&entry.OldValue, &entry.NewValue, &entry.Actor, &entry.ActorType, &entry.IPAddress,
			&entry.UserAgent, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit logs: %w", err)
	}
	return result, nil
}
