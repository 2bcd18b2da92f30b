package repositories

import (
	"context"
	"time"

	"github.com/branchops/float_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FloatAccountReader defines read operations for float account data
type FloatAccountReader interface {
	// FindFloatAccountByID retrieves a float account by its unique identifier.
	FindFloatAccountByID(ctx context.Context, accountID string) (*domain.FloatAccount, error)

	// FindActiveFloatAccount retrieves the branch's active float account of the given type.
	FindActiveFloatAccount(ctx context.Context, branchID string, accountType domain.FloatAccountType) (*domain.FloatAccount, error)

	// ListFloatAccounts retrieves float accounts, optionally scoped to a branch.
	ListFloatAccounts(ctx context.Context, branchID *string) ([]domain.FloatAccount, error)
}

// FloatEntryReader defines read operations for the float entry log
type FloatEntryReader interface {
	// ListFloatEntries retrieves a page of an account's entries, newest first.
	ListFloatEntries(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.FloatTransactionEntry, *string, error)

	// SumEntriesByReference sums applied deltas per account for one source reference.
	SumEntriesByReference(ctx context.Context, sourceModule domain.ServiceType, referenceID string) (map[string]decimal.Decimal, error)

	// SumEntriesByAccount sums all applied deltas per account, optionally scoped to a branch.
	SumEntriesByAccount(ctx context.Context, branchID *string) (map[string]decimal.Decimal, error)
}

// FloatAccountWriter defines write operations for float account data
type FloatAccountWriter interface {
	// SaveFloatAccount persists a new float account.
	SaveFloatAccount(ctx context.Context, account domain.FloatAccount) error

	// DeactivateFloatAccount marks a float account as inactive.
	DeactivateFloatAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// FloatAccountLocker defines operations that require an open unit of work
type FloatAccountLocker interface {
	// LockFloatAccounts selects and locks the given accounts in ascending id order.
	// Missing accounts are absent from the returned map.
	LockFloatAccounts(ctx context.Context, accountIDs []string) (map[string]domain.FloatAccount, error)

	// UpdateFloatBalance stores a new balance for a locked account.
	UpdateFloatBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error

	// InsertFloatEntry appends an entry to the float entry log.
	InsertFloatEntry(ctx context.Context, entry domain.FloatTransactionEntry) error
}

// FloatAccountRepositoryFacade combines all float account repository interfaces
type FloatAccountRepositoryFacade interface {
	FloatAccountReader
	FloatEntryReader
	FloatAccountWriter
	FloatAccountLocker
}
