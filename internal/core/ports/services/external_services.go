package services

import (
	"context"

	"github.com/branchops/float_ledger/internal/core/domain"
)

// AuditRecorder receives a structured event after each state transition.
// Failures never block the operation that produced the event.
type AuditRecorder interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}

// NotificationService forwards events to delivery channels. Fire-and-forget.
type NotificationService interface {
	Notify(ctx context.Context, event domain.AuditEvent) error
}
