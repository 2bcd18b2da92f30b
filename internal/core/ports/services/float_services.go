package services

import (
	"context"

	"github.com/branchops/float_ledger/internal/core/domain"
	"github.com/branchops/float_ledger/internal/dto"
)

// FloatOperationsSvc moves value between float accounts.
type FloatOperationsSvc interface {
	// Recharge tops up a target float account from a source account.
	Recharge(ctx context.Context, req dto.RechargeFloatRequest, actor domain.Actor) (*domain.TransferResult, error)

	// Exchange converts till cash into float (or back) within one branch.
	Exchange(ctx context.Context, req dto.ExchangeFloatRequest, actor domain.Actor) (*domain.TransferResult, error)
}

// FloatAccountSvc manages float account configuration.
type FloatAccountSvc interface {
	CreateFloatAccount(ctx context.Context, req dto.CreateFloatAccountRequest, actor domain.Actor) (*domain.FloatAccount, error)
	GetFloatAccount(ctx context.Context, accountID string, actor domain.Actor) (*domain.FloatAccount, error)
	ListFloatAccounts(ctx context.Context, branchID *string, actor domain.Actor) ([]domain.FloatAccount, error)
	ListFloatEntries(ctx context.Context, accountID string, actor domain.Actor, params dto.ListFloatEntriesParams) (*dto.ListFloatEntriesResponse, error)
	DeactivateFloatAccount(ctx context.Context, accountID string, actor domain.Actor) error
}
