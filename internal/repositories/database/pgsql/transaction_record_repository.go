package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/branchops/float_ledger/internal/apperrors"
	"github.com/branchops/float_ledger/internal/core/domain"
	portsrepo "github.com/branchops/float_ledger/internal/core/ports/repositories"
	"github.com/branchops/float_ledger/internal/models"
	"github.com/branchops/float_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, transaction_type, amount, fee, customer_name, customer_phone, reference,
		float_account_id, branch_id, status, idempotency_key, metadata, delete_reason,
		created_at, created_by, last_updated_at, last_updated_by`

// PgxTransactionRecordRepository adapts one module's transaction table.
// The table name comes from the fixed module list, never from input.
type PgxTransactionRecordRepository struct {
	BaseRepository
	module domain.ServiceType
	table  string
}

func newPgxTransactionRecordRepository(pool *pgxpool.Pool, module domain.ServiceType) portsrepo.TransactionRecordStore {
	return &PgxTransactionRecordRepository{
		BaseRepository: BaseRepository{Pool: pool},
		module:         module,
		table:          string(module) + "_transactions",
	}
}

func newPgxTransactionRecordStores(pool *pgxpool.Pool) portsrepo.TransactionRecordStores {
	stores := make(portsrepo.TransactionRecordStores, len(domain.TransactionModules))
	for _, module := range domain.TransactionModules {
		stores[module] = newPgxTransactionRecordRepository(pool, module)
	}
	return stores
}

var _ portsrepo.TransactionRecordStore = (*PgxTransactionRecordRepository)(nil)

// Module returns the service module this store serves.
func (r *PgxTransactionRecordRepository) Module() domain.ServiceType {
	return r.module
}

func (r *PgxTransactionRecordRepository) scan(row pgx.Row) (*domain.Transaction, error) {
	var m models.TransactionRecord
	err := row.Scan(
		&m.TransactionID, &m.TransactionType, &m.Amount, &m.Fee, &m.CustomerName, &m.CustomerPhone, &m.Reference,
		&m.FloatAccountID, &m.BranchID, &m.Status, &m.IdempotencyKey, &m.Metadata, &m.DeleteReason,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	txn, err := mapping.ToDomainTransaction(r.module, m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to map transaction row", err)
	}
	return &txn, nil
}

// Insert persists a new transaction row.
func (r *PgxTransactionRecordRepository) Insert(ctx context.Context, txn domain.Transaction) error {
	m, err := mapping.ToModelTransaction(txn)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	query := `INSERT INTO ` + r.table + ` (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`
	_, err = r.conn(ctx).Exec(ctx, query,
		m.TransactionID, m.TransactionType, m.Amount, m.Fee, m.CustomerName, m.CustomerPhone, m.Reference,
		m.FloatAccountID, m.BranchID, m.Status, m.IdempotencyKey, m.Metadata, m.DeleteReason,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s transaction %s", apperrors.ErrDuplicate, r.module, m.TransactionID)
		}
		return apperrors.NewAppError(500, "failed to insert "+string(r.module)+" transaction", err)
	}
	return nil
}

// Find retrieves a transaction by id.
func (r *PgxTransactionRecordRepository) Find(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM ` + r.table + ` WHERE transaction_id = $1;`
	txn, err := r.scan(r.conn(ctx).QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrTransactionNotFound, "failed to find "+string(r.module)+" transaction "+transactionID)
	}
	return txn, nil
}

// FindForUpdate retrieves and locks a transaction row within the current unit of work.
func (r *PgxTransactionRecordRepository) FindForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	tx, err := r.requireTx(ctx, "locking a transaction row")
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + transactionColumns + ` FROM ` + r.table + ` WHERE transaction_id = $1 FOR UPDATE;`
	txn, err := r.scan(tx.QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrTransactionNotFound, "failed to lock "+string(r.module)+" transaction "+transactionID)
	}
	return txn, nil
}

// FindByIdempotencyKey retrieves the transaction created with the given key.
func (r *PgxTransactionRecordRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM ` + r.table + ` WHERE idempotency_key = $1;`
	txn, err := r.scan(r.conn(ctx).QueryRow(ctx, query, key))
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrTransactionNotFound, "failed to find "+string(r.module)+" transaction by idempotency key")
	}
	return txn, nil
}

// Update stores the editable fields of a transaction.
func (r *PgxTransactionRecordRepository) Update(ctx context.Context, txn domain.Transaction) error {
	m, err := mapping.ToModelTransaction(txn)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	query := `UPDATE ` + r.table + `
		SET amount = $2, fee = $3, customer_name = $4, customer_phone = $5, reference = $6, metadata = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE transaction_id = $1;`
	tag, err := r.conn(ctx).Exec(ctx, query,
		m.TransactionID, m.Amount, m.Fee, m.CustomerName, m.CustomerPhone, m.Reference, m.Metadata,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update "+string(r.module)+" transaction "+m.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// UpdateStatus moves a transaction to a new status.
func (r *PgxTransactionRecordRepository) UpdateStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, deleteReason *string, userID string, now time.Time) error {
	query := `UPDATE ` + r.table + `
		SET status = $2, delete_reason = COALESCE($3, delete_reason), last_updated_at = $4, last_updated_by = $5
		WHERE transaction_id = $1;`
	tag, err := r.conn(ctx).Exec(ctx, query, transactionID, string(status), deleteReason, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of "+string(r.module)+" transaction "+transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}
