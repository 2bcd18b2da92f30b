package repositories

import (
	"context"
	"time"

	"github.com/branchops/float_ledger/internal/core/domain"
)

// GLAccountReader defines read operations for GL account data
type GLAccountReader interface {
	// FindGLAccountByID retrieves a GL account by its unique identifier.
	FindGLAccountByID(ctx context.Context, accountID string) (*domain.GLAccount, error)

	// ListGLAccounts retrieves GL accounts visible to a branch; nil lists all.
	ListGLAccounts(ctx context.Context, branchID *string) ([]domain.GLAccount, error)
}

// GLAccountWriter defines write operations for GL account data
type GLAccountWriter interface {
	// SaveGLAccount persists a new GL account.
	SaveGLAccount(ctx context.Context, account domain.GLAccount) error
}

// GLMappingReader defines read operations for GL mapping rules
type GLMappingReader interface {
	// ListActiveMappings retrieves active mappings for a service and transaction type.
	// A nil branchID selects the branch-agnostic default rules only.
	ListActiveMappings(ctx context.Context, serviceType domain.ServiceType, txnType domain.TransactionType, branchID *string) ([]domain.GLMapping, error)

	// ListMappings retrieves every mapping, optionally filtered by service.
	ListMappings(ctx context.Context, serviceType *domain.ServiceType) ([]domain.GLMapping, error)
}

// GLMappingWriter defines write operations for GL mapping rules
type GLMappingWriter interface {
	// SaveMapping persists a new mapping rule.
	SaveMapping(ctx context.Context, mapping domain.GLMapping) error

	// DeactivateMapping marks a mapping rule inactive.
	DeactivateMapping(ctx context.Context, mappingID string, userID string, now time.Time) error
}

// JournalEntryReader defines read operations for GL journal entries
type JournalEntryReader interface {
	// FindEntriesByGrouping retrieves all entries of one grouping id.
	FindEntriesByGrouping(ctx context.Context, groupingID string) ([]domain.GLJournalEntry, error)

	// FindPostedEntriesBySource retrieves every posted entry produced for a source transaction.
	FindPostedEntriesBySource(ctx context.Context, sourceModule domain.ServiceType, sourceTransactionID string) ([]domain.GLJournalEntry, error)
}

// JournalEntryWriter defines write operations for GL journal entries
type JournalEntryWriter interface {
	// InsertEntries persists a batch of journal entries.
	InsertEntries(ctx context.Context, entries []domain.GLJournalEntry) error
}

// GLRepositoryFacade combines all ledger-store repository interfaces
type GLRepositoryFacade interface {
	GLAccountReader
	GLAccountWriter
	GLMappingReader
	GLMappingWriter
	JournalEntryReader
	JournalEntryWriter
}
