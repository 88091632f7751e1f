package service

import (
	"context"
	"fmt"

	"payment-orchestrator/internal/core/domain"
	"payment-orchestrator/internal/core/ports"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService creates a new audit service.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record persists an audit entry within tx, so it commits atomically
// with the mutation it describes.
func (s *auditService) Record(ctx context.Context, tx pgx.Tx, entry *domain.AuditLog) error {
	if err := s.repo.Create(ctx, tx, entry); err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	s.log.Info().
		Str("action", string(entry.Action)).
		Str("resource_type", entry.ResourceType).
		Str("resource_id", entry.ResourceID).
		Str("actor", entry.Actor).
		Msg("audit")
	return nil
}
