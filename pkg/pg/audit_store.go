package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/orggate/pkg/audit"
)

// Copier is the subset of *pgxpool.Pool the audit store uses.
type Copier interface {
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
}

var _ audit.BatchWriter = (*AuditStore)(nil)

// AuditStore appends audit events to audit_events with COPY.
type AuditStore struct {
	db Copier
}

func NewAuditStore(db Copier) *AuditStore {
	return &AuditStore{db: db}
}

var auditColumns = []string{
	"id", "action", "result", "account_id", "provider", "external_id",
	"reason", "request_id", "ip", "user_agent", "metadata", "created_at",
}

// StoreBatch implements audit.BatchWriter.
func (s *AuditStore) StoreBatch(ctx context.Context, events []audit.Event) error {
	if len(events) == 0 {
		return nil
	}
	_, err := s.db.CopyFrom(ctx, pgx.Identifier{"audit_events"}, auditColumns,
		pgx.CopyFromSlice(len(events), func(i int) ([]any, error) {
			e := events[i]
			return []any{
				e.ID, e.Action, string(e.Result), e.AccountID, e.Provider, e.ExternalID,
				e.Reason, e.RequestID, e.IP, e.UserAgent, e.Metadata, e.CreatedAt,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy audit events: %w", err)
	}
	return nil
}
