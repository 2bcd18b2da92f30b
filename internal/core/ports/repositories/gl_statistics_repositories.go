package repositories

import (
	"context"

	"github.com/branchops/float_ledger/internal/core/domain"
)

// GLStatisticsRepository defines aggregation queries over the ledger store.
// A nil branchID aggregates institution-wide.
type GLStatisticsRepository interface {
	// AccountBalances derives each GL account's debit and credit totals from posted entries.
	AccountBalances(ctx context.Context, branchID *string) ([]domain.GLAccountBalance, error)

	// UnbalancedGroupings lists grouping ids whose posted debits differ from credits.
	UnbalancedGroupings(ctx context.Context, branchID *string) ([]domain.UnbalancedGrouping, error)

	// PendingEffectsByAccount counts pending ledger effects per float account.
	PendingEffectsByAccount(ctx context.Context, branchID *string) (map[string]int, error)
}
