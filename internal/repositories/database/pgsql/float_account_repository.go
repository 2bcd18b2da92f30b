package pgsql

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/branchops/float_ledger/internal/apperrors"
	"github.com/branchops/float_ledger/internal/core/domain"
	portsrepo "github.com/branchops/float_ledger/internal/core/ports/repositories"
	"github.com/branchops/float_ledger/internal/models"
	"github.com/branchops/float_ledger/internal/utils/mapping"
	"github.com/branchops/float_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const floatAccountColumns = `account_id, branch_id, account_type, provider, balance, min_threshold, max_threshold,
		is_active, created_at, created_by, last_updated_at, last_updated_by`

const floatEntryColumns = `entry_id, account_id, entry_type, amount, balance_before, balance_after,
		source_module, reference_id, description, created_by, created_at`

type PgxFloatAccountRepository struct {
	BaseRepository
}

func newPgxFloatAccountRepository(pool *pgxpool.Pool) portsrepo.FloatAccountRepositoryFacade {
	return &PgxFloatAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FloatAccountRepositoryFacade = (*PgxFloatAccountRepository)(nil)

func scanFloatAccount(row pgx.Row) (domain.FloatAccount, error) {
	var m models.FloatAccount
	err := row.Scan(
		&m.AccountID,
		&m.BranchID,
		&m.AccountType,
		&m.Provider,
		&m.Balance,
		&m.MinThreshold,
		&m.MaxThreshold,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.FloatAccount{}, err
	}
	return mapping.ToDomainFloatAccount(m), nil
}

func scanFloatEntry(row pgx.Row) (domain.FloatTransactionEntry, error) {
	var e domain.FloatTransactionEntry
	err := row.Scan(
		&e.EntryID,
		&e.AccountID,
		&e.EntryType,
		&e.Amount,
		&e.BalanceBefore,
		&e.BalanceAfter,
		&e.SourceModule,
		&e.ReferenceID,
		&e.Description,
		&e.CreatedBy,
		&e.CreatedAt,
	)
	return e, err
}

// SaveFloatAccount persists a new float account.
func (r *PgxFloatAccountRepository) SaveFloatAccount(ctx context.Context, account domain.FloatAccount) error {
	m := mapping.ToModelFloatAccount(account)
	query := `INSERT INTO float_accounts (` + floatAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	_, err := r.conn(ctx).Exec(ctx, query,
		m.AccountID, m.BranchID, m.AccountType, m.Provider, m.Balance, m.MinThreshold, m.MaxThreshold,
		m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: float account %s", apperrors.ErrDuplicate, m.AccountID)
		}
		return apperrors.NewAppError(500, "failed to save float account", err)
	}
	return nil
}

// FindFloatAccountByID retrieves a float account by its ID.
func (r *PgxFloatAccountRepository) FindFloatAccountByID(ctx context.Context, accountID string) (*domain.FloatAccount, error) {
	query := `SELECT ` + floatAccountColumns + ` FROM float_accounts WHERE account_id = $1;`
	acc, err := scanFloatAccount(r.conn(ctx).QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrAccountNotFound, "failed to find float account "+accountID)
	}
	return &acc, nil
}

// FindActiveFloatAccount returns the oldest active account of a type in a branch.
func (r *PgxFloatAccountRepository) FindActiveFloatAccount(ctx context.Context, branchID string, accountType domain.FloatAccountType) (*domain.FloatAccount, error) {
	query := `SELECT ` + floatAccountColumns + ` FROM float_accounts
		WHERE branch_id = $1 AND account_type = $2 AND is_active
		ORDER BY created_at ASC, account_id ASC
		LIMIT 1;`
	acc, err := scanFloatAccount(r.conn(ctx).QueryRow(ctx, query, branchID, string(accountType)))
	if err != nil {
		return nil, notFoundOr(err, apperrors.ErrAccountNotFound, "failed to find active float account")
	}
	return &acc, nil
}

// ListFloatAccounts retrieves float accounts, optionally scoped to a branch.
func (r *PgxFloatAccountRepository) ListFloatAccounts(ctx context.Context, branchID *string) ([]domain.FloatAccount, error) {
	query := `SELECT ` + floatAccountColumns + ` FROM float_accounts
		WHERE ($1::text IS NULL OR branch_id = $1)
		ORDER BY branch_id, account_type, created_at;`
	rows, err := r.conn(ctx).Query(ctx, query, branchID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list float accounts", err)
	}
	defer rows.Close()

	accounts := []domain.FloatAccount{}
	for rows.Next() {
		acc, err := scanFloatAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan float account row", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating float account rows", err)
	}
	return accounts, nil
}

// DeactivateFloatAccount marks a float account as inactive.
func (r *PgxFloatAccountRepository) DeactivateFloatAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `UPDATE float_accounts SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1;`
	tag, err := r.conn(ctx).Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate float account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// LockFloatAccounts selects the given accounts FOR UPDATE in ascending id order.
func (r *PgxFloatAccountRepository) LockFloatAccounts(ctx context.Context, accountIDs []string) (map[string]domain.FloatAccount, error) {
	tx, err := r.requireTx(ctx, "locking float accounts")
	if err != nil {
		return nil, err
	}
	if len(accountIDs) == 0 {
		return map[string]domain.FloatAccount{}, nil
	}
	ids := append([]string(nil), accountIDs...)
	sort.Strings(ids)

	query := `SELECT ` + floatAccountColumns + ` FROM float_accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;`
	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock float accounts", err)
	}
	defer rows.Close()

	locked := make(map[string]domain.FloatAccount, len(ids))
	for rows.Next() {
		acc, err := scanFloatAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan locked float account row", err)
		}
		locked[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating locked float account rows", err)
	}
	return locked, nil
}

// UpdateFloatBalance stores a new balance for a locked account.
func (r *PgxFloatAccountRepository) UpdateFloatBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	tx, err := r.requireTx(ctx, "updating a float balance")
	if err != nil {
		return err
	}
	query := `UPDATE float_accounts SET balance = $2, last_updated_at = $3, last_updated_by = $4 WHERE account_id = $1;`
	tag, err := tx.Exec(ctx, query, accountID, balance, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update float balance for "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

// InsertFloatEntry appends an entry to the float entry log.
func (r *PgxFloatAccountRepository) InsertFloatEntry(ctx context.Context, e domain.FloatTransactionEntry) error {
	query := `INSERT INTO float_transaction_entries (` + floatEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	_, err := r.conn(ctx).Exec(ctx, query,
		e.EntryID, e.AccountID, string(e.EntryType), e.Amount, e.BalanceBefore, e.BalanceAfter,
		string(e.SourceModule), e.ReferenceID, e.Description, e.CreatedBy, e.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert float entry for "+e.AccountID, err)
	}
	return nil
}

// ListFloatEntries retrieves a page of an account's entries, newest first.
func (r *PgxFloatAccountRepository) ListFloatEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.FloatTransactionEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	query := `SELECT ` + floatEntryColumns + ` FROM float_transaction_entries WHERE account_id = $1`
	args := []any{accountID}
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, decodeErr)
		}
		query += ` AND (created_at, entry_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastID)
	}
	query += ` ORDER BY created_at DESC, entry_id DESC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query float entries for "+accountID, err)
	}
	defer rows.Close()

	entries := make([]domain.FloatTransactionEntry, 0, fetchLimit)
	for rows.Next() {
		e, err := scanFloatEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan float entry row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating float entry rows", err)
	}

	var next *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.EntryID)
		next = &token
		entries = entries[:limit]
	}
	return entries, next, nil
}

func (r *PgxFloatAccountRepository) sumByAccount(ctx context.Context, query string, args ...any) (map[string]decimal.Decimal, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to sum float entries", err)
	}
	defer rows.Close()

	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var accountID string
		var total decimal.Decimal
		if err := rows.Scan(&accountID, &total); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan float entry sum", err)
		}
		sums[accountID] = total
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating float entry sums", err)
	}
	return sums, nil
}

// SumEntriesByReference sums applied deltas per account for one source reference.
func (r *PgxFloatAccountRepository) SumEntriesByReference(ctx context.Context, sourceModule domain.ServiceType, referenceID string) (map[string]decimal.Decimal, error) {
	query := `SELECT account_id, SUM(amount) FROM float_transaction_entries
		WHERE source_module = $1 AND reference_id = $2
		GROUP BY account_id;`
	return r.sumByAccount(ctx, query, string(sourceModule), referenceID)
}

// SumEntriesByAccount sums all applied deltas per account, optionally scoped to a branch.
func (r *PgxFloatAccountRepository) SumEntriesByAccount(ctx context.Context, branchID *string) (map[string]decimal.Decimal, error) {
	query := `SELECT e.account_id, SUM(e.amount) FROM float_transaction_entries e
		JOIN float_accounts a ON a.account_id = e.account_id
		WHERE ($1::text IS NULL OR a.branch_id = $1)
		GROUP BY e.account_id;`
	return r.sumByAccount(ctx, query, branchID)
}
