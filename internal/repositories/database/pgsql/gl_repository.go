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

const glAccountColumns = `account_id, code, name, account_type, branch_id, is_active,
		created_at, created_by, last_updated_at, last_updated_by`

const glMappingColumns = `mapping_id, service_type, transaction_type, branch_id, float_account_id, gl_account_id,
		side, basis, is_active, created_at, created_by, last_updated_at, last_updated_by`

const glEntryColumns = `entry_id, grouping_id, gl_account_id, debit, credit, branch_id, source_module,
		source_transaction_id, description, status, created_at, created_by`

// PgxGLRepository is the ledger store: GL accounts, mapping rules and journal entries.
type PgxGLRepository struct {
	BaseRepository
}

func newPgxGLRepository(pool *pgxpool.Pool) portsrepo.GLRepositoryFacade {
	return &PgxGLRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.GLRepositoryFacade = (*PgxGLRepository)(nil)

func scanGLAccount(row pgx.Row) (domain.GLAccount, error) {
	var a domain.GLAccount
	err := row.Scan(
		&a.AccountID, &a.Code, &a.Name, &a.AccountType, &a.BranchID, &a.IsActive,
		&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy,
	)
	return a, err
}

func scanGLMapping(row pgx.Row) (domain.GLMapping, error) {
	var m models.GLMapping
	err := row.Scan(
		&m.MappingID, &m.ServiceType, &m.TransactionType, &m.BranchID, &m.FloatAccountID, &m.GLAccountID,
		&m.Side, &m.Basis, &m.IsActive, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return domain.GLMapping{}, err
	}
	return mapping.ToDomainGLMapping(m), nil
}

func scanGLEntry(row pgx.Row) (domain.GLJournalEntry, error) {
	var e domain.GLJournalEntry
	err := row.Scan(
		&e.EntryID, &e.GroupingID, &e.GLAccountID, &e.Debit, &e.Credit, &e.BranchID, &e.SourceModule,
		&e.SourceTransactionID, &e.Description, &e.Status, &e.CreatedAt, &e.CreatedBy,
	)
	return e, err
}

// SaveGLAccount persists a new GL account.
func (r *PgxGLRepository) SaveGLAccount(ctx context.Context, a domain.GLAccount) error {
	query := `INSERT INTO gl_accounts (` + glAccountColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`
	_, err := r.conn(ctx).Exec(ctx, query,
		a.AccountID, a.Code, a.Name, string(a.AccountType), a.BranchID, a.IsActive,
		a.CreatedAt, a.CreatedBy, a.LastUpdatedAt, a.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: GL account code %s", apperrors.ErrDuplicate, a.Code)
		}
		return apperrors.NewAppError(500, "failed to save GL account", err)
	}
	return nil
}

// FindGLAccountByID retrieves a GL account by its ID.
func (r *PgxGLRepository) FindGLAccountByID(ctx context.Context, accountID string) (*domain.GLAccount, error) {
	query := `SELECT ` + glAccountColumns + ` FROM gl_accounts WHERE account_id = $1;`
	a, err := scanGLAccount(r.conn(ctx).QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, notFoundOr(err, apperrors.NewNotFoundError("GL account "+accountID+" not found"), "failed to find GL account "+accountID)
	}
	return &a, nil
}

// ListGLAccounts lists institution-wide accounts plus those of the branch; nil lists all.
func (r *PgxGLRepository) ListGLAccounts(ctx context.Context, branchID *string) ([]domain.GLAccount, error) {
	query := `SELECT ` + glAccountColumns + ` FROM gl_accounts
		WHERE ($1::text IS NULL OR branch_id IS NULL OR branch_id = $1)
		ORDER BY code;`
	rows, err := r.conn(ctx).Query(ctx, query, branchID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list GL accounts", err)
	}
	defer rows.Close()

	accounts := []domain.GLAccount{}
	for rows.Next() {
		a, err := scanGLAccount(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan GL account row", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating GL account rows", err)
	}
	return accounts, nil
}

// SaveMapping persists a new mapping rule.
func (r *PgxGLRepository) SaveMapping(ctx context.Context, d domain.GLMapping) error {
	m := mapping.ToModelGLMapping(d)
	query := `INSERT INTO gl_mappings (` + glMappingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
	_, err := r.conn(ctx).Exec(ctx, query,
		m.MappingID, m.ServiceType, m.TransactionType, m.BranchID, m.FloatAccountID, m.GLAccountID,
		m.Side, m.Basis, m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save GL mapping", err)
	}
	return nil
}

// DeactivateMapping marks a mapping rule inactive.
func (r *PgxGLRepository) DeactivateMapping(ctx context.Context, mappingID string, userID string, now time.Time) error {
	query := `UPDATE gl_mappings SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3 WHERE mapping_id = $1;`
	tag, err := r.conn(ctx).Exec(ctx, query, mappingID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate GL mapping "+mappingID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("GL mapping " + mappingID + " not found")
	}
	return nil
}

func (r *PgxGLRepository) queryMappings(ctx context.Context, query string, args ...any) ([]domain.GLMapping, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query GL mappings", err)
	}
	defer rows.Close()

	mappings := []domain.GLMapping{}
	for rows.Next() {
		m, err := scanGLMapping(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan GL mapping row", err)
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating GL mapping rows", err)
	}
	return mappings, nil
}

// ListActiveMappings retrieves active rules for a branch, or the defaults when branchID is nil.
func (r *PgxGLRepository) ListActiveMappings(ctx context.Context, serviceType domain.ServiceType, txnType domain.TransactionType, branchID *string) ([]domain.GLMapping, error) {
	query := `SELECT ` + glMappingColumns + ` FROM gl_mappings
		WHERE service_type = $1 AND transaction_type = $2 AND is_active
		  AND branch_id IS NOT DISTINCT FROM $3
		ORDER BY side DESC, created_at;`
	return r.queryMappings(ctx, query, string(serviceType), string(txnType), branchID)
}

// ListMappings retrieves every mapping, optionally filtered by service.
func (r *PgxGLRepository) ListMappings(ctx context.Context, serviceType *domain.ServiceType) ([]domain.GLMapping, error) {
	var service *string
	if serviceType != nil {
		s := string(*serviceType)
		service = &s
	}
	query := `SELECT ` + glMappingColumns + ` FROM gl_mappings
		WHERE ($1::text IS NULL OR service_type = $1)
		ORDER BY service_type, transaction_type, branch_id NULLS FIRST, side DESC;`
	return r.queryMappings(ctx, query, service)
}

// InsertEntries persists a batch of journal entries.
func (r *PgxGLRepository) InsertEntries(ctx context.Context, entries []domain.GLJournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	query := `INSERT INTO gl_journal_entries (` + glEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	for _, e := range entries {
		batch.Queue(query,
			e.EntryID, e.GroupingID, e.GLAccountID, e.Debit, e.Credit, e.BranchID, string(e.SourceModule),
			e.SourceTransactionID, e.Description, string(e.Status), e.CreatedAt, e.CreatedBy,
		)
	}
	br := r.conn(ctx).SendBatch(ctx, batch)
	// Close reports the first failed statement of the batch.
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert journal entries for grouping "+entries[0].GroupingID, err)
	}
	return nil
}

func (r *PgxGLRepository) queryEntries(ctx context.Context, query string, args ...any) ([]domain.GLJournalEntry, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal entries", err)
	}
	defer rows.Close()

	entries := []domain.GLJournalEntry{}
	for rows.Next() {
		e, err := scanGLEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal entry row", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal entry rows", err)
	}
	return entries, nil
}

// FindEntriesByGrouping retrieves all entries of one grouping id.
func (r *PgxGLRepository) FindEntriesByGrouping(ctx context.Context, groupingID string) ([]domain.GLJournalEntry, error) {
	query := `SELECT ` + glEntryColumns + ` FROM gl_journal_entries WHERE grouping_id = $1 ORDER BY debit DESC, entry_id;`
	return r.queryEntries(ctx, query, groupingID)
}

// FindPostedEntriesBySource retrieves every posted entry produced for a source transaction.
func (r *PgxGLRepository) FindPostedEntriesBySource(ctx context.Context, sourceModule domain.ServiceType, sourceTransactionID string) ([]domain.GLJournalEntry, error) {
	query := `SELECT ` + glEntryColumns + ` FROM gl_journal_entries
		WHERE source_module = $1 AND source_transaction_id = $2 AND status = 'POSTED'
		ORDER BY created_at, entry_id;`
	return r.queryEntries(ctx, query, string(sourceModule), sourceTransactionID)
}
