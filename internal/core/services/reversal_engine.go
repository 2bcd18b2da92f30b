package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/branchops/float_ledger/internal/apperrors"
	"github.com/branchops/float_ledger/internal/core/domain"
	portsrepo "github.com/branchops/float_ledger/internal/core/ports/repositories"
	portssvc "github.com/branchops/float_ledger/internal/core/ports/services"
	"github.com/branchops/float_ledger/internal/platform/observability"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// reversalEngine compensates whatever a transaction actually applied. The
// compensation is read back from the float entry log rather than recomputed
// from the transaction's current amount, so edits are undone as well.
type reversalEngine struct {
	BaseService
	txManager   portsrepo.TransactionManager
	stores      portsrepo.TransactionRecordStores
	floatLedger portssvc.FloatLedgerSvc
	posting     portssvc.GLPostingSvc
	outbox      portsrepo.OutboxRepositoryFacade
}

// NewReversalEngine creates the reversal engine.
func NewReversalEngine(
	txManager portsrepo.TransactionManager,
	stores portsrepo.TransactionRecordStores,
	floatLedger portssvc.FloatLedgerSvc,
	posting portssvc.GLPostingSvc,
	outbox portsrepo.OutboxRepositoryFacade,
	deps Dependencies,
) portssvc.ReversalEngineSvc {
	return &reversalEngine{
		BaseService: newBaseService(deps),
		txManager:   txManager,
		stores:      stores,
		floatLedger: floatLedger,
		posting:     posting,
		outbox:      outbox,
	}
}

var _ portssvc.ReversalEngineSvc = (*reversalEngine)(nil)

func (s *reversalEngine) Execute(ctx context.Context, cmd domain.ReversalCommand) (result *domain.ReversalResult, err error) {
	ctx, span := observability.StartSpan(ctx, "reversal.execute",
		attribute.String("module", string(cmd.SourceModule)),
		attribute.String("transaction_id", cmd.TransactionID),
		attribute.Bool("delete", cmd.Delete))
	defer func() { observability.EndSpan(span, err) }()

	if cmd.Reason == "" {
		return nil, validationError("reversal requires a reason")
	}
	store, err := s.stores.For(cmd.SourceModule)
	if err != nil {
		return nil, err
	}

	target := domain.StatusReversed
	eventType := domain.EventTransactionReversed
	if cmd.Delete {
		target = domain.StatusDeleted
		eventType = domain.EventTransactionDeleted
	}

	result = &domain.ReversalResult{CompensatedDeltas: map[string]decimal.Decimal{}}
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		txn, err := store.FindForUpdate(ctx, cmd.TransactionID)
		if err != nil {
			return err
		}
		if err := authorizeBranch(cmd.Actor, txn.BranchID); err != nil {
			return err
		}
		switch txn.Status {
		case domain.StatusReversed:
			return apperrors.ErrAlreadyReversed
		case domain.StatusDeleted:
			return fmt.Errorf("%w: transaction is deleted", apperrors.ErrInvalidTransition)
		}

		applied, err := s.floatLedger.NetEffect(ctx, txn.ServiceType, txn.TransactionID)
		if err != nil {
			return err
		}
		accountIDs := make([]string, 0, len(applied))
		for id := range applied {
			accountIDs = append(accountIDs, id)
		}
		sort.Strings(accountIDs)
		for _, id := range accountIDs {
			entry, account, err := s.floatLedger.Apply(ctx, domain.FloatMutation{
				AccountID:    id,
				Delta:        applied[id].Neg(),
				EntryType:    domain.EntryReversal,
				Actor:        cmd.Actor,
				Description:  fmt.Sprintf("%s of %s %s: %s", target, txn.ServiceType, txn.TransactionType, cmd.Reason),
				SourceModule: txn.ServiceType,
				ReferenceID:  txn.TransactionID,
			})
			if err != nil {
				return err
			}
			result.CompensatedDeltas[id] = entry.Amount
			result.FloatEntries = append(result.FloatEntries, *entry)
			result.FloatAccounts = append(result.FloatAccounts, *account)
		}

		// Effects not yet posted never reach the ledger; the rest are swapped.
		result.CancelledEffects, err = s.outbox.CancelPendingEffects(ctx, txn.ServiceType, txn.TransactionID)
		if err != nil {
			return err
		}
		effect := domain.LedgerEffect{
			EffectID:            uuid.NewString(),
			Kind:                domain.EffectReverse,
			SourceModule:        txn.ServiceType,
			SourceTransactionID: txn.TransactionID,
			ServiceType:         txn.ServiceType,
			TransactionType:     txn.TransactionType,
			BranchID:            txn.BranchID,
			FloatAccountID:      txn.FloatAccountID,
			Amount:              decimal.Zero,
			Fee:                 decimal.Zero,
			CreatedBy:           cmd.Actor.UserID,
		}
		if err := s.posting.EnqueueEffect(ctx, effect); err != nil {
			return err
		}
		result.GroupingID = effect.EffectID
		result.ReconciliationPending = true

		var deleteReason *string
		if cmd.Delete {
			reason := cmd.Reason
			deleteReason = &reason
			txn.DeleteReason = deleteReason
		}
		now := s.now()
		if err := store.UpdateStatus(ctx, txn.TransactionID, target, deleteReason, cmd.Actor.UserID, now); err != nil {
			return err
		}
		txn.Status = target
		txn.LastUpdatedAt = now
		txn.LastUpdatedBy = cmd.Actor.UserID
		result.Transaction = *txn

		s.postAfterCommit(ctx, s.txManager, s.posting, effect, cmd.Actor, func(entries []domain.GLJournalEntry, pending bool) {
			result.Journal = entries
			result.ReconciliationPending = pending
		})
		// Registered after the posting hook so the event reports its outcome.
		s.txManager.AfterCommit(ctx, func(ctx context.Context) {
			s.reportReversal(ctx, cmd, eventType, result)
		})
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to reverse transaction",
			slog.String("module", string(cmd.SourceModule)),
			slog.String("transaction_id", cmd.TransactionID),
			slog.Bool("delete", cmd.Delete),
			slog.String("user_id", cmd.Actor.UserID))
		return nil, err
	}
	return result, nil
}

func (s *reversalEngine) reportReversal(ctx context.Context, cmd domain.ReversalCommand, eventType domain.EventType, result *domain.ReversalResult) {
	txn := result.Transaction
	deltas := make(map[string]any, len(result.CompensatedDeltas))
	for id, d := range result.CompensatedDeltas {
		deltas[id] = d.String()
	}
	s.LogInfo(ctx, "Transaction reversed",
		slog.String("module", string(txn.ServiceType)),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("status", string(txn.Status)),
		slog.String("grouping_id", result.GroupingID),
		slog.Int("cancelled_effects", result.CancelledEffects),
		slog.String("user_id", cmd.Actor.UserID))
	s.emit(ctx, newEvent(eventType, cmd.Actor, txn.BranchID, txn.ServiceType, txn.TransactionID, map[string]any{
		"reason":                 cmd.Reason,
		"compensated_deltas":     deltas,
		"cancelled_effects":      result.CancelledEffects,
		"reconciliation_pending": result.ReconciliationPending,
	}))
	s.warnThresholds(ctx, cmd.Actor, result.FloatAccounts...)
}
