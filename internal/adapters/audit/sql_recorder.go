// Package audit persists state-transition events to the audit_events table.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/branchops/float_ledger/internal/core/domain"
	portssvc "github.com/branchops/float_ledger/internal/core/ports/services"
)

const insertEventQuery = `INSERT INTO audit_events
	(event_id, event_type, actor_id, actor_role, branch_id, source_module, entity_id, details, occurred_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// SQLRecorder writes audit events through a database/sql handle.
type SQLRecorder struct {
	db *sql.DB
}

// NewSQLRecorder creates a recorder over db.
func NewSQLRecorder(db *sql.DB) *SQLRecorder {
	return &SQLRecorder{db: db}
}

var _ portssvc.AuditRecorder = (*SQLRecorder)(nil)

// Record inserts one event. Details are stored as JSON.
func (r *SQLRecorder) Record(ctx context.Context, event domain.AuditEvent) error {
	details := []byte("{}")
	if len(event.Details) > 0 {
		b, err := json.Marshal(event.Details)
		if err != nil {
			return fmt.Errorf("marshal audit details: %w", err)
		}
		details = b
	}
	_, err := r.db.ExecContext(ctx, insertEventQuery,
		event.EventID,
		string(event.Type),
		event.ActorID,
		string(event.ActorRole),
		event.BranchID,
		string(event.SourceModule),
		event.EntityID,
		details,
		event.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit event %s: %w", event.EventID, err)
	}
	return nil
}
