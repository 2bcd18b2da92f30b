package services

import (
	"context"

	"github.com/branchops/float_ledger/internal/core/domain"
	"github.com/branchops/float_ledger/internal/dto"
)

// GLConfigSvc manages GL accounts and mapping rules.
type GLConfigSvc interface {
	CreateGLAccount(ctx context.Context, req dto.CreateGLAccountRequest, actor domain.Actor) (*domain.GLAccount, error)
	ListGLAccounts(ctx context.Context, branchID *string, actor domain.Actor) ([]domain.GLAccount, error)
	CreateMapping(ctx context.Context, req dto.CreateGLMappingRequest, actor domain.Actor) (*domain.GLMapping, error)
	ListMappings(ctx context.Context, serviceType *domain.ServiceType, actor domain.Actor) ([]domain.GLMapping, error)
	DeactivateMapping(ctx context.Context, mappingID string, actor domain.Actor) error
}

// GLStatisticsSvc reports ledger health.
type GLStatisticsSvc interface {
	// Statistics aggregates balances, trial totals and reconciliation gaps.
	Statistics(ctx context.Context, branchID *string, actor domain.Actor) (*domain.GLStatistics, error)

	// Grouping returns the entries of one grouping id.
	Grouping(ctx context.Context, groupingID string, actor domain.Actor) ([]domain.GLJournalEntry, error)
}
