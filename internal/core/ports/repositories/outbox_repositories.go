package repositories

import (
	"context"
	"time"

	"github.com/branchops/float_ledger/internal/core/domain"
)

// LedgerEffectReader defines read operations for pending ledger effects
type LedgerEffectReader interface {
	// FindEffectByID retrieves a ledger effect by id.
	FindEffectByID(ctx context.Context, effectID string) (*domain.LedgerEffect, error)

	// ListPendingEffects retrieves the oldest pending effects with fewer than maxAttempts attempts.
	ListPendingEffects(ctx context.Context, limit int, maxAttempts int) ([]domain.LedgerEffect, error)

	// CountPendingEffects counts pending effects, optionally scoped to a branch.
	CountPendingEffects(ctx context.Context, branchID *string) (int, error)
}

// LedgerEffectWriter defines write operations for pending ledger effects
type LedgerEffectWriter interface {
	// SaveEffect persists a new ledger effect.
	SaveEffect(ctx context.Context, effect domain.LedgerEffect) error

	// LockPendingEffect locks a pending effect for posting. It returns
	// apperrors.ErrNotFound when the effect is missing, not pending, or locked
	// by another poster.
	LockPendingEffect(ctx context.Context, effectID string) (*domain.LedgerEffect, error)

	// MarkEffectPosted flags an effect as posted.
	MarkEffectPosted(ctx context.Context, effectID string, now time.Time) error

	// RecordEffectFailure increments the attempt counter and stores the last error.
	RecordEffectFailure(ctx context.Context, effectID string, reason string) error

	// CancelPendingEffects cancels every pending effect of a source transaction
	// and returns how many were cancelled.
	CancelPendingEffects(ctx context.Context, sourceModule domain.ServiceType, sourceTransactionID string) (int, error)
}

// OutboxRepositoryFacade combines the ledger effect repository interfaces
type OutboxRepositoryFacade interface {
	LedgerEffectReader
	LedgerEffectWriter
}
