package services

import (
	"context"

	"github.com/branchops/float_ledger/internal/core/domain"
	"github.com/branchops/float_ledger/internal/dto"
)

// ReversalRequestSvc manages the reversal approval workflow.
type ReversalRequestSvc interface {
	RequestReversal(ctx context.Context, req dto.CreateReversalRequest, actor domain.Actor) (*domain.ReversalRecord, error)
	// ApproveReversal approves a pending request and executes the reversal exactly once.
	ApproveReversal(ctx context.Context, reversalID string, note *string, actor domain.Actor) (*domain.ReversalResult, error)
	RejectReversal(ctx context.Context, reversalID string, note *string, actor domain.Actor) (*domain.ReversalRecord, error)
	ListReversals(ctx context.Context, params dto.ListReversalsParams, actor domain.Actor) ([]domain.ReversalRecord, error)
}
