package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/branchops/float_ledger/internal/apperrors"
	"github.com/branchops/float_ledger/internal/core/domain"
	portsrepo "github.com/branchops/float_ledger/internal/core/ports/repositories"
	portssvc "github.com/branchops/float_ledger/internal/core/ports/services"
	"github.com/branchops/float_ledger/internal/dto"
	"github.com/google/uuid"
)

type reversalRequestService struct {
	BaseService
	txManager portsrepo.TransactionManager
	repo      portsrepo.ReversalRepositoryFacade
	stores    portsrepo.TransactionRecordStores
	engine    portssvc.ReversalEngineSvc
}

// NewReversalRequestService creates the reversal approval workflow.
func NewReversalRequestService(
	txManager portsrepo.TransactionManager,
	repo portsrepo.ReversalRepositoryFacade,
	stores portsrepo.TransactionRecordStores,
	engine portssvc.ReversalEngineSvc,
	deps Dependencies,
) portssvc.ReversalRequestSvc {
	return &reversalRequestService{
		BaseService: newBaseService(deps),
		txManager:   txManager,
		repo:        repo,
		stores:      stores,
		engine:      engine,
	}
}

var _ portssvc.ReversalRequestSvc = (*reversalRequestService)(nil)

func (s *reversalRequestService) RequestReversal(ctx context.Context, req dto.CreateReversalRequest, actor domain.Actor) (*domain.ReversalRecord, error) {
	store, err := s.stores.For(req.SourceModule)
	if err != nil {
		return nil, err
	}
	txn, err := store.Find(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}
	if err := authorizeBranch(actor, txn.BranchID); err != nil {
		return nil, err
	}
	switch txn.Status {
	case domain.StatusReversed:
		return nil, apperrors.ErrAlreadyReversed
	case domain.StatusDeleted:
		return nil, fmt.Errorf("%w: transaction is deleted", apperrors.ErrInvalidTransition)
	}

	existing, err := s.repo.FindPendingReversal(ctx, req.SourceModule, req.TransactionID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: reversal %s is already pending for transaction %s", apperrors.ErrDuplicate, existing.ReversalID, req.TransactionID)
	}

	record := domain.ReversalRecord{
		ReversalID:    uuid.NewString(),
		TransactionID: txn.TransactionID,
		SourceModule:  txn.ServiceType,
		BranchID:      txn.BranchID,
		RequestedBy:   actor.UserID,
		Reason:        req.Reason,
		Status:        domain.ReversalPending,
		RequestedAt:   s.now(),
	}
	if err := s.repo.SaveReversal(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to save reversal request",
			slog.String("transaction_id", txn.TransactionID),
			slog.String("user_id", actor.UserID))
		return nil, err
	}

	s.LogInfo(ctx, "Reversal requested",
		slog.String("reversal_id", record.ReversalID),
		slog.String("transaction_id", record.TransactionID),
		slog.String("user_id", actor.UserID))
	s.emit(ctx, newEvent(domain.EventReversalRequested, actor, record.BranchID, record.SourceModule, record.TransactionID, map[string]any{
		"reversal_id": record.ReversalID,
		"reason":      record.Reason,
	}))
	return &record, nil
}

// authorizeReview checks that the actor may decide on a request.
func authorizeReview(actor domain.Actor, record domain.ReversalRecord) error {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleFinance, domain.RoleManager); err != nil {
		return err
	}
	if err := authorizeBranch(actor, record.BranchID); err != nil {
		return err
	}
	if record.RequestedBy == actor.UserID {
		return fmt.Errorf("%w: requester may not review their own reversal", apperrors.ErrForbidden)
	}
	return nil
}

func (s *reversalRequestService) ApproveReversal(ctx context.Context, reversalID string, note *string, actor domain.Actor) (*domain.ReversalResult, error) {
	record, err := s.repo.FindReversalByID(ctx, reversalID)
	if err != nil {
		return nil, err
	}
	if err := authorizeReview(actor, *record); err != nil {
		return nil, err
	}
	if record.Status != domain.ReversalPending {
		return nil, apperrors.ErrAlreadyReviewed
	}

	var result *domain.ReversalResult
	// Marking the request and compensating share one unit of work, so a
	// concurrent approval loses on MarkReviewed and nothing is applied twice.
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.MarkReviewed(ctx, reversalID, domain.ReversalApproved, actor.UserID, note, s.now()); err != nil {
			return err
		}
		var err error
		result, err = s.engine.Execute(ctx, domain.ReversalCommand{
			TransactionID: record.TransactionID,
			SourceModule:  record.SourceModule,
			Reason:        record.Reason,
			Actor:         actor,
		})
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to approve reversal",
			slog.String("reversal_id", reversalID),
			slog.String("user_id", actor.UserID))
		return nil, err
	}

	s.LogInfo(ctx, "Reversal approved",
		slog.String("reversal_id", reversalID),
		slog.String("transaction_id", record.TransactionID),
		slog.String("user_id", actor.UserID))
	s.emit(ctx, newEvent(domain.EventReversalApproved, actor, record.BranchID, record.SourceModule, record.TransactionID, map[string]any{
		"reversal_id":  reversalID,
		"requested_by": record.RequestedBy,
		"grouping_id":  result.GroupingID,
	}))
	return result, nil
}

func (s *reversalRequestService) RejectReversal(ctx context.Context, reversalID string, note *string, actor domain.Actor) (*domain.ReversalRecord, error) {
	record, err := s.repo.FindReversalByID(ctx, reversalID)
	if err != nil {
		return nil, err
	}
	if err := authorizeReview(actor, *record); err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.repo.MarkReviewed(ctx, reversalID, domain.ReversalRejected, actor.UserID, note, now); err != nil {
		return nil, err
	}

	reviewer := actor.UserID
	record.Status = domain.ReversalRejected
	record.ReviewedBy = &reviewer
	record.ReviewNote = note
	record.ReviewedAt = &now

	s.LogInfo(ctx, "Reversal rejected",
		slog.String("reversal_id", reversalID),
		slog.String("user_id", actor.UserID))
	s.emit(ctx, newEvent(domain.EventReversalRejected, actor, record.BranchID, record.SourceModule, record.TransactionID, map[string]any{
		"reversal_id":  reversalID,
		"requested_by": record.RequestedBy,
	}))
	return record, nil
}

func (s *reversalRequestService) ListReversals(ctx context.Context, params dto.ListReversalsParams, actor domain.Actor) ([]domain.ReversalRecord, error) {
	scope, err := branchScope(actor, params.BranchID)
	if err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	return s.repo.ListReversals(ctx, portsrepo.ReversalFilter{
		BranchID: scope,
		Status:   params.Status,
		Limit:    limit,
		Offset:   params.Offset,
	})
}
