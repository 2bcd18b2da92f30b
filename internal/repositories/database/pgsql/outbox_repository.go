package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/branchops/float_ledger/internal/apperrors"
	"github.com/branchops/float_ledger/internal/core/domain"
	portsrepo "github.com/branchops/float_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const effectColumns = `effect_id, kind, source_module, source_transaction_id, service_type, transaction_type,
		branch_id, float_account_id, amount, fee, status, attempts, last_error, created_by, created_at, posted_at`

// PgxOutboxRepository stores ledger effects that still have to reach the general ledger.
type PgxOutboxRepository struct {
	BaseRepository
}

func newPgxOutboxRepository(pool *pgxpool.Pool) portsrepo.OutboxRepositoryFacade {
	return &PgxOutboxRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OutboxRepositoryFacade = (*PgxOutboxRepository)(nil)

func scanEffect(row pgx.Row) (domain.LedgerEffect, error) {
	var e domain.LedgerEffect
	err := row.Scan(
		&e.EffectID, &e.Kind, &e.SourceModule, &e.SourceTransactionID, &e.ServiceType, &e.TransactionType,
		&e.BranchID, &e.FloatAccountID, &e.Amount, &e.Fee, &e.Status, &e.Attempts, &e.LastError,
		&e.CreatedBy, &e.CreatedAt, &e.PostedAt,
	)
	return e, err
}

// SaveEffect persists a new ledger effect.
func (r *PgxOutboxRepository) SaveEffect(ctx context.Context, e domain.LedgerEffect) error {
	query := `INSERT INTO ledger_effects (` + effectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`
	_, err := r.conn(ctx).Exec(ctx, query,
		e.EffectID, string(e.Kind), string(e.SourceModule), e.SourceTransactionID, string(e.ServiceType), string(e.TransactionType),
		e.BranchID, e.FloatAccountID, e.Amount, e.Fee, string(e.Status), e.Attempts, e.LastError,
		e.CreatedBy, e.CreatedAt, e.PostedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save ledger effect "+e.EffectID, err)
	}
	return nil
}

// FindEffectByID retrieves a ledger effect by id.
func (r *PgxOutboxRepository) FindEffectByID(ctx context.Context, effectID string) (*domain.LedgerEffect, error) {
	query := `SELECT ` + effectColumns + ` FROM ledger_effects WHERE effect_id = $1;`
	e, err := scanEffect(r.conn(ctx).QueryRow(ctx, query, effectID))
	if err != nil {
		return nil, notFoundOr(err, apperrors.NewNotFoundError("ledger effect "+effectID+" not found"), "failed to find ledger effect "+effectID)
	}
	return &e, nil
}

// ListPendingEffects retrieves the oldest pending effects that have not exhausted their attempts.
func (r *PgxOutboxRepository) ListPendingEffects(ctx context.Context, limit int, maxAttempts int) ([]domain.LedgerEffect, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + effectColumns + ` FROM ledger_effects
		WHERE status = 'PENDING' AND ($2 <= 0 OR attempts < $2)
		ORDER BY created_at, effect_id
		LIMIT $1;`
	rows, err := r.conn(ctx).Query(ctx, query, limit, maxAttempts)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list pending ledger effects", err)
	}
	defer rows.Close()

	effects := []domain.LedgerEffect{}
	for rows.Next() {
		e, err := scanEffect(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger effect row", err)
		}
		effects = append(effects, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger effect rows", err)
	}
	return effects, nil
}

// CountPendingEffects counts pending effects, optionally scoped to a branch.
func (r *PgxOutboxRepository) CountPendingEffects(ctx context.Context, branchID *string) (int, error) {
	query := `SELECT COUNT(*) FROM ledger_effects WHERE status = 'PENDING' AND ($1::text IS NULL OR branch_id = $1);`
	var n int
	if err := r.conn(ctx).QueryRow(ctx, query, branchID).Scan(&n); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count pending ledger effects", err)
	}
	return n, nil
}

// LockPendingEffect locks a pending effect, skipping rows another poster holds.
func (r *PgxOutboxRepository) LockPendingEffect(ctx context.Context, effectID string) (*domain.LedgerEffect, error) {
	tx, err := r.requireTx(ctx, "locking a ledger effect")
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + effectColumns + ` FROM ledger_effects
		WHERE effect_id = $1 AND status = 'PENDING'
		FOR UPDATE SKIP LOCKED;`
	e, err := scanEffect(tx.QueryRow(ctx, query, effectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no pending ledger effect " + effectID)
		}
		return nil, apperrors.NewAppError(500, "failed to lock ledger effect "+effectID, err)
	}
	return &e, nil
}

// MarkEffectPosted flags an effect as posted.
func (r *PgxOutboxRepository) MarkEffectPosted(ctx context.Context, effectID string, now time.Time) error {
	query := `UPDATE ledger_effects SET status = 'POSTED', posted_at = $2, attempts = attempts + 1, last_error = NULL
		WHERE effect_id = $1 AND status = 'PENDING';`
	tag, err := r.conn(ctx).Exec(ctx, query, effectID, now)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark ledger effect "+effectID+" posted", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("no pending ledger effect " + effectID)
	}
	return nil
}

// RecordEffectFailure increments the attempt counter and stores the last error.
func (r *PgxOutboxRepository) RecordEffectFailure(ctx context.Context, effectID string, reason string) error {
	query := `UPDATE ledger_effects SET attempts = attempts + 1, last_error = $2
		WHERE effect_id = $1 AND status = 'PENDING';`
	if _, err := r.conn(ctx).Exec(ctx, query, effectID, reason); err != nil {
		return apperrors.NewAppError(500, "failed to record ledger effect failure for "+effectID, err)
	}
	return nil
}

// CancelPendingEffects cancels the still-pending effects of a source transaction.
func (r *PgxOutboxRepository) CancelPendingEffects(ctx context.Context, sourceModule domain.ServiceType, sourceTransactionID string) (int, error) {
	query := `UPDATE ledger_effects SET status = 'CANCELLED'
		WHERE source_module = $1 AND source_transaction_id = $2 AND status = 'PENDING';`
	tag, err := r.conn(ctx).Exec(ctx, query, string(sourceModule), sourceTransactionID)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to cancel pending ledger effects for "+sourceTransactionID, err)
	}
	return int(tag.RowsAffected()), nil
}
