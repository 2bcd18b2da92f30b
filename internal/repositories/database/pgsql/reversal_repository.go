package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/branchops/float_ledger/internal/apperrors"
	"github.com/branchops/float_ledger/internal/core/domain"
	portsrepo "github.com/branchops/float_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reversalColumns = `reversal_id, transaction_id, source_module, branch_id, requested_by, reason, status,
		reviewed_by, review_note, requested_at, reviewed_at`

type PgxReversalRepository struct {
	BaseRepository
}

func newPgxReversalRepository(pool *pgxpool.Pool) portsrepo.ReversalRepositoryFacade {
	return &PgxReversalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReversalRepositoryFacade = (*PgxReversalRepository)(nil)

func scanReversal(row pgx.Row) (domain.ReversalRecord, error) {
	var rec domain.ReversalRecord
	err := row.Scan(
		&rec.ReversalID, &rec.TransactionID, &rec.SourceModule, &rec.BranchID, &rec.RequestedBy, &rec.Reason,
		&rec.Status, &rec.ReviewedBy, &rec.ReviewNote, &rec.RequestedAt, &rec.ReviewedAt,
	)
	return rec, err
}

// SaveReversal persists a new reversal request.
func (r *PgxReversalRepository) SaveReversal(ctx context.Context, rec domain.ReversalRecord) error {
	query := `INSERT INTO reversal_records (` + reversalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	_, err := r.conn(ctx).Exec(ctx, query,
		rec.ReversalID, rec.TransactionID, string(rec.SourceModule), rec.BranchID, rec.RequestedBy, rec.Reason,
		string(rec.Status), rec.ReviewedBy, rec.ReviewNote, rec.RequestedAt, rec.ReviewedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: a reversal request for transaction %s is already pending", apperrors.ErrDuplicate, rec.TransactionID)
		}
		return apperrors.NewAppError(500, "failed to save reversal request", err)
	}
	return nil
}

// FindReversalByID retrieves a reversal request by id.
func (r *PgxReversalRepository) FindReversalByID(ctx context.Context, reversalID string) (*domain.ReversalRecord, error) {
	query := `SELECT ` + reversalColumns + ` FROM reversal_records WHERE reversal_id = $1;`
	rec, err := scanReversal(r.conn(ctx).QueryRow(ctx, query, reversalID))
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrReversalNotFound, "failed to find reversal request "+reversalID)
	}
	return &rec, nil
}

// FindPendingReversal retrieves the open request for a transaction, if any.
func (r *PgxReversalRepository) FindPendingReversal(ctx context.Context, sourceModule domain.ServiceType, transactionID string) (*domain.ReversalRecord, error) {
	query := `SELECT ` + reversalColumns + ` FROM reversal_records
		WHERE source_module = $1 AND transaction_id = $2 AND status = 'PENDING';`
	rec, err := scanReversal(r.conn(ctx).QueryRow(ctx, query, string(sourceModule), transactionID))
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrReversalNotFound, "failed to find pending reversal for "+transactionID)
	}
	return &rec, nil
}

// ListReversals retrieves reversal requests matching the filter, newest first.
func (r *PgxReversalRepository) ListReversals(ctx context.Context, filter portsrepo.ReversalFilter) ([]domain.ReversalRecord, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}
	args := []any{filter.BranchID, status}
	query := `SELECT ` + reversalColumns + ` FROM reversal_records
		WHERE ($1::text IS NULL OR branch_id = $1) AND ($2::text IS NULL OR status = $2)
		ORDER BY requested_at DESC, reversal_id DESC
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2) + `;`
	args = append(args, limit, filter.Offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list reversal requests", err)
	}
	defer rows.Close()

	records := []domain.ReversalRecord{}
	for rows.Next() {
		rec, err := scanReversal(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan reversal request row", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating reversal request rows", err)
	}
	return records, nil
}

// MarkReviewed moves a pending request to a terminal status.
func (r *PgxReversalRepository) MarkReviewed(ctx context.Context, reversalID string, status domain.ReversalStatus, reviewerID string, note *string, now time.Time) error {
	query := `UPDATE reversal_records SET status = $2, reviewed_by = $3, review_note = $4, reviewed_at = $5
		WHERE reversal_id = $1 AND status = 'PENDING';`
	tag, err := r.conn(ctx).Exec(ctx, query, reversalID, string(status), reviewerID, note, now)
	if err != nil {
		return apperrors.NewAppError(500, "failed to review reversal request "+reversalID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyReviewed
	}
	return nil
}
