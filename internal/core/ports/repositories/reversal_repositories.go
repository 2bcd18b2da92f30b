package repositories

import (
	"context"
	"time"

	"github.com/branchops/float_ledger/internal/core/domain"
)

// ReversalFilter narrows a reversal request listing.
type ReversalFilter struct {
	BranchID *string
	Status   *domain.ReversalStatus
	Limit    int
	Offset   int
}

// ReversalReader defines read operations for reversal requests
type ReversalReader interface {
	// FindReversalByID retrieves a reversal request by id.
	FindReversalByID(ctx context.Context, reversalID string) (*domain.ReversalRecord, error)

	// FindPendingReversal retrieves the open request for a transaction, if any.
	FindPendingReversal(ctx context.Context, sourceModule domain.ServiceType, transactionID string) (*domain.ReversalRecord, error)

	// ListReversals retrieves reversal requests matching the filter, newest first.
	ListReversals(ctx context.Context, filter ReversalFilter) ([]domain.ReversalRecord, error)
}

// ReversalWriter defines write operations for reversal requests
type ReversalWriter interface {
	// SaveReversal persists a new reversal request.
	SaveReversal(ctx context.Context, record domain.ReversalRecord) error

	// MarkReviewed moves a pending request to a terminal status. It returns
	// apperrors.ErrAlreadyReviewed when the request is no longer pending.
	MarkReviewed(ctx context.Context, reversalID string, status domain.ReversalStatus, reviewerID string, note *string, now time.Time) error
}

// ReversalRepositoryFacade combines reversal request repository interfaces
type ReversalRepositoryFacade interface {
	ReversalReader
	ReversalWriter
}
