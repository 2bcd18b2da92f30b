package pgsql

import (
	"context"

	"github.com/branchops/float_ledger/internal/apperrors"
	"github.com/branchops/float_ledger/internal/core/domain"
	portsrepo "github.com/branchops/float_ledger/internal/core/ports/repositories"
	"github.com/branchops/float_ledger/internal/utils/accounting"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxGLStatisticsRepository runs the aggregation queries behind GL statistics.
type PgxGLStatisticsRepository struct {
	BaseRepository
}

func newPgxGLStatisticsRepository(pool *pgxpool.Pool) portsrepo.GLStatisticsRepository {
	return &PgxGLStatisticsRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.GLStatisticsRepository = (*PgxGLStatisticsRepository)(nil)

// AccountBalances derives each GL account's totals from posted entries.
func (r *PgxGLStatisticsRepository) AccountBalances(ctx context.Context, branchID *string) ([]domain.GLAccountBalance, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(e.debit), 0) AS total_debit,
		       COALESCE(SUM(e.credit), 0) AS total_credit
		FROM gl_accounts a
		LEFT JOIN gl_journal_entries e
		       ON e.gl_account_id = a.account_id
		      AND e.status = 'POSTED'
		      AND ($1::text IS NULL OR e.branch_id = $1)
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	rows, err := r.conn(ctx).Query(ctx, query, branchID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query GL account balances", err)
	}
	defer rows.Close()

	balances := []domain.GLAccountBalance{}
	for rows.Next() {
		var b domain.GLAccountBalance
		if err := rows.Scan(&b.AccountID, &b.Code, &b.AccountName, &b.AccountType, &b.Debit, &b.Credit); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan GL account balance row", err)
		}
		signed, err := accounting.SignedBalance(b.AccountType, b.Debit, b.Credit)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to sign balance of GL account "+b.AccountID, err)
		}
		b.Balance = signed
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating GL account balance rows", err)
	}
	return balances, nil
}

// UnbalancedGroupings lists grouping ids whose posted debits differ from credits.
func (r *PgxGLStatisticsRepository) UnbalancedGroupings(ctx context.Context, branchID *string) ([]domain.UnbalancedGrouping, error) {
	query := `
		SELECT grouping_id, SUM(debit), SUM(credit)
		FROM gl_journal_entries
		WHERE status = 'POSTED' AND ($1::text IS NULL OR branch_id = $1)
		GROUP BY grouping_id
		HAVING SUM(debit) <> SUM(credit)
		ORDER BY grouping_id;
	`
	rows, err := r.conn(ctx).Query(ctx, query, branchID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query unbalanced groupings", err)
	}
	defer rows.Close()

	groupings := []domain.UnbalancedGrouping{}
	for rows.Next() {
		var g domain.UnbalancedGrouping
		if err := rows.Scan(&g.GroupingID, &g.Debit, &g.Credit); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan unbalanced grouping row", err)
		}
		groupings = append(groupings, g)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating unbalanced grouping rows", err)
	}
	return groupings, nil
}

// PendingEffectsByAccount counts pending ledger effects per float account.
func (r *PgxGLStatisticsRepository) PendingEffectsByAccount(ctx context.Context, branchID *string) (map[string]int, error) {
	query := `
		SELECT float_account_id, COUNT(*)
		FROM ledger_effects
		WHERE status = 'PENDING' AND ($1::text IS NULL OR branch_id = $1)
		GROUP BY float_account_id;
	`
	rows, err := r.conn(ctx).Query(ctx, query, branchID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to count pending effects per account", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var accountID string
		var n int
		if err := rows.Scan(&accountID, &n); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan pending effect count", err)
		}
		counts[accountID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating pending effect counts", err)
	}
	return counts, nil
}
