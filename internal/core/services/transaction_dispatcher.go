package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/branchops/float_ledger/internal/apperrors"
	"github.com/branchops/float_ledger/internal/core/domain"
	portsrepo "github.com/branchops/float_ledger/internal/core/ports/repositories"
	portssvc "github.com/branchops/float_ledger/internal/core/ports/services"
	"github.com/branchops/float_ledger/internal/platform/observability"
	"github.com/branchops/float_ledger/internal/utils/accounting"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

// transactionDispatcher routes typed commands to the module transaction
// stores and drives the status machine of every service.
type transactionDispatcher struct {
	BaseService
	txManager   portsrepo.TransactionManager
	stores      portsrepo.TransactionRecordStores
	floatLedger portssvc.FloatLedgerSvc
	resolver    portssvc.MappingResolverSvc
	posting     portssvc.GLPostingSvc
	reversal    portssvc.ReversalEngineSvc
	validate    *validator.Validate
}

// NewTransactionDispatcher creates the dispatcher.
func NewTransactionDispatcher(
	txManager portsrepo.TransactionManager,
	stores portsrepo.TransactionRecordStores,
	floatLedger portssvc.FloatLedgerSvc,
	resolver portssvc.MappingResolverSvc,
	posting portssvc.GLPostingSvc,
	reversal portssvc.ReversalEngineSvc,
	deps Dependencies,
) portssvc.TransactionDispatcherSvc {
	return &transactionDispatcher{
		BaseService: newBaseService(deps),
		txManager:   txManager,
		stores:      stores,
		floatLedger: floatLedger,
		resolver:    resolver,
		posting:     posting,
		reversal:    reversal,
		validate:    validator.New(),
	}
}

var _ portssvc.TransactionDispatcherSvc = (*transactionDispatcher)(nil)

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperrors.ErrValidation):
		return "rejected"
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		return "conflict"
	case errors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, apperrors.ErrForbidden), errors.Is(err, apperrors.ErrUnauthorized):
		return "denied"
	}
	return "error"
}

func (s *transactionDispatcher) Dispatch(ctx context.Context, cmd domain.Command) (result *domain.TransactionResult, err error) {
	ctx, span := observability.StartSpan(ctx, "dispatcher.dispatch",
		attribute.String("module", string(cmd.Module)),
		attribute.String("action", string(cmd.Action)),
		attribute.String("transaction_id", cmd.TransactionID))
	start := time.Now()
	defer func() {
		s.metrics().IncrCommand(string(cmd.Module), string(cmd.Action), outcomeOf(err))
		s.metrics().RecordDuration("dispatch", time.Since(start))
		observability.EndSpan(span, err)
	}()

	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if cmd.Actor.UserID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	store, err := s.stores.For(cmd.Module)
	if err != nil {
		return nil, err
	}

	switch cmd.Action {
	case domain.ActionCreate:
		return s.create(ctx, store, cmd)
	case domain.ActionEdit:
		return s.edit(ctx, store, cmd)
	case domain.ActionReverse, domain.ActionDelete:
		return s.reverse(ctx, cmd)
	default:
		return s.transition(ctx, store, cmd)
	}
}

func (s *transactionDispatcher) GetTransaction(ctx context.Context, module domain.ServiceType, transactionID string, actor domain.Actor) (*domain.Transaction, error) {
	store, err := s.stores.For(module)
	if err != nil {
		return nil, err
	}
	txn, err := store.Find(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if err := authorizeBranch(actor, txn.BranchID); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *transactionDispatcher) create(ctx context.Context, store portsrepo.TransactionRecordStore, cmd domain.Command) (*domain.TransactionResult, error) {
	intent := *cmd.Intent
	intent.ServiceType = cmd.Module
	if intent.BranchID == "" {
		intent.BranchID = cmd.Actor.BranchID
	}
	if err := s.validate.Struct(intent); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	amount := domain.RoundMoney(intent.Amount)
	fee := domain.RoundMoney(intent.Fee)
	if !amount.IsPositive() {
		return nil, validationError("amount must be greater than zero")
	}
	if fee.IsNegative() {
		return nil, validationError("fee must not be negative")
	}
	if _, ok := domain.DirectionFor(cmd.Module, intent.TransactionType); !ok {
		return nil, validationError("transaction type %q is not supported by %s", intent.TransactionType, cmd.Module)
	}
	if err := authorizeBranch(cmd.Actor, intent.BranchID); err != nil {
		return nil, err
	}

	if intent.IdempotencyKey != "" {
		replay, err := s.replay(ctx, store, intent.IdempotencyKey, cmd.Actor)
		if err != nil || replay != nil {
			return replay, err
		}
	}

	account, err := s.resolver.ResolveFloatAccount(ctx, cmd.Module, intent.BranchID, intent.FloatAccountID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		ServiceType:     cmd.Module,
		TransactionType: intent.TransactionType,
		Amount:          amount,
		Fee:             fee,
		CustomerName:    intent.CustomerName,
		CustomerPhone:   intent.CustomerPhone,
		Reference:       intent.Reference,
		FloatAccountID:  account.AccountID,
		BranchID:        intent.BranchID,
		Status:          cmd.Module.InitialStatus(),
		Metadata:        intent.Metadata,
		AuditFields:     domain.NewAuditFields(cmd.Actor.UserID, now),
	}
	if intent.IdempotencyKey != "" {
		key := intent.IdempotencyKey
		txn.IdempotencyKey = &key
	}

	result := &domain.TransactionResult{Transaction: txn, FloatAccount: account}
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := store.Insert(ctx, txn); err != nil {
			return err
		}
		if !cmd.Module.AppliesEffectsOnCreate() {
			return nil
		}
		return s.applyEffects(ctx, txn, txn.Amount, txn.Fee, cmd.Actor, result)
	})
	if err != nil {
		if intent.IdempotencyKey != "" && errors.Is(err, apperrors.ErrDuplicate) {
			// Lost a race with a concurrent request carrying the same key.
			if replay, rerr := s.replay(ctx, store, intent.IdempotencyKey, cmd.Actor); rerr == nil && replay != nil {
				return replay, nil
			}
		}
		s.LogError(ctx, err, "Failed to create transaction",
			slog.String("module", string(cmd.Module)),
			slog.String("transaction_type", string(intent.TransactionType)),
			slog.String("amount", amount.String()),
			slog.String("user_id", cmd.Actor.UserID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("module", string(cmd.Module)),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("status", string(txn.Status)),
		slog.String("amount", amount.String()),
		slog.String("fee", fee.String()),
		slog.String("grouping_id", result.GroupingID),
		slog.String("user_id", cmd.Actor.UserID))
	s.emit(ctx, newEvent(domain.EventTransactionCreated, cmd.Actor, txn.BranchID, cmd.Module, txn.TransactionID, map[string]any{
		"transaction_type":       string(txn.TransactionType),
		"amount":                 txn.Amount.String(),
		"fee":                    txn.Fee.String(),
		"status":                 string(txn.Status),
		"reconciliation_pending": result.ReconciliationPending,
	}))
	if result.FloatAccount != nil {
		s.warnThresholds(ctx, cmd.Actor, *result.FloatAccount)
	}
	return result, nil
}

// replay returns the transaction already created with an idempotency key, or nil.
func (s *transactionDispatcher) replay(ctx context.Context, store portsrepo.TransactionRecordStore, key string, actor domain.Actor) (*domain.TransactionResult, error) {
	existing, err := store.FindByIdempotencyKey(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := authorizeBranch(actor, existing.BranchID); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Idempotency key matched existing transaction",
		slog.String("transaction_id", existing.TransactionID),
		slog.String("idempotency_key", key))
	return &domain.TransactionResult{Transaction: *existing, Replayed: true}, nil
}

// applyEffects moves the float by the delta implied by amount and fee and
// enqueues the matching ledger effect. It runs inside the caller's unit of work;
// the journal is posted once that unit of work commits.
func (s *transactionDispatcher) applyEffects(ctx context.Context, txn domain.Transaction, amount, fee decimal.Decimal, actor domain.Actor, result *domain.TransactionResult) error {
	dir, ok := domain.DirectionFor(txn.ServiceType, txn.TransactionType)
	if !ok {
		return validationError("transaction type %q is not supported by %s", txn.TransactionType, txn.ServiceType)
	}
	delta := dir.FloatDelta(amount, fee)
	if !delta.IsZero() {
		entry, account, err := s.floatLedger.Apply(ctx, domain.FloatMutation{
			AccountID:    txn.FloatAccountID,
			Delta:        delta,
			EntryType:    domain.EntryTransaction,
			Actor:        actor,
			Description:  fmt.Sprintf("%s %s", txn.ServiceType, txn.TransactionType),
			SourceModule: txn.ServiceType,
			ReferenceID:  txn.TransactionID,
		})
		if err != nil {
			return err
		}
		result.FloatAccount = account
		result.FloatEntries = append(result.FloatEntries, *entry)
	}

	if amount.IsZero() && fee.IsZero() {
		return nil
	}
	effect := domain.LedgerEffect{
		EffectID:            uuid.NewString(),
		Kind:                domain.EffectPost,
		SourceModule:        txn.ServiceType,
		SourceTransactionID: txn.TransactionID,
		ServiceType:         txn.ServiceType,
		TransactionType:     txn.TransactionType,
		BranchID:            txn.BranchID,
		FloatAccountID:      txn.FloatAccountID,
		Amount:              amount,
		Fee:                 fee,
		CreatedBy:           actor.UserID,
	}
	if err := s.posting.EnqueueEffect(ctx, effect); err != nil {
		return err
	}
	result.GroupingID = effect.EffectID
	result.ReconciliationPending = true
	s.postAfterCommit(ctx, s.txManager, s.posting, effect, actor, func(entries []domain.GLJournalEntry, pending bool) {
		result.Journal = entries
		result.ReconciliationPending = pending
	})
	return nil
}

func (s *transactionDispatcher) edit(ctx context.Context, store portsrepo.TransactionRecordStore, cmd domain.Command) (*domain.TransactionResult, error) {
	changes := *cmd.Changes
	if changes.Amount != nil {
		rounded := domain.RoundMoney(*changes.Amount)
		if !rounded.IsPositive() {
			return nil, validationError("amount must be greater than zero")
		}
		changes.Amount = &rounded
	}
	if changes.Fee != nil {
		rounded := domain.RoundMoney(*changes.Fee)
		if rounded.IsNegative() {
			return nil, validationError("fee must not be negative")
		}
		changes.Fee = &rounded
	}
	if changes.CustomerName != nil && *changes.CustomerName == "" {
		return nil, validationError("customer name must not be empty")
	}

	result := &domain.TransactionResult{}
	var before domain.Transaction
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		txn, err := store.FindForUpdate(ctx, cmd.TransactionID)
		if err != nil {
			return err
		}
		if err := authorizeBranch(cmd.Actor, txn.BranchID); err != nil {
			return err
		}
		if !txn.Status.Editable() {
			if txn.Status == domain.StatusReversed {
				return apperrors.ErrAlreadyReversed
			}
			return fmt.Errorf("%w: %s transaction cannot be edited", apperrors.ErrInvalidTransition, txn.Status)
		}
		before = *txn

		if changes.Amount != nil {
			txn.Amount = *changes.Amount
		}
		if changes.Fee != nil {
			txn.Fee = *changes.Fee
		}
		if changes.CustomerName != nil {
			txn.CustomerName = *changes.CustomerName
		}
		if changes.CustomerPhone != nil {
			txn.CustomerPhone = *changes.CustomerPhone
		}
		if changes.Reference != nil {
			txn.Reference = *changes.Reference
		}
		if changes.Metadata != nil {
			txn.Metadata = changes.Metadata
		}
		txn.LastUpdatedAt = s.now()
		txn.LastUpdatedBy = cmd.Actor.UserID
		if err := store.Update(ctx, *txn); err != nil {
			return err
		}
		result.Transaction = *txn

		if !txn.EffectsApplied() {
			return nil
		}
		return s.applyEditDelta(ctx, *txn, before, cmd.Actor, result)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to edit transaction",
			slog.String("module", string(cmd.Module)),
			slog.String("transaction_id", cmd.TransactionID),
			slog.String("user_id", cmd.Actor.UserID))
		return nil, err
	}

	txn := result.Transaction
	s.LogInfo(ctx, "Transaction edited",
		slog.String("module", string(cmd.Module)),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("amount_before", before.Amount.String()),
		slog.String("amount_after", txn.Amount.String()),
		slog.String("user_id", cmd.Actor.UserID))
	s.emit(ctx, newEvent(domain.EventTransactionEdited, cmd.Actor, txn.BranchID, cmd.Module, txn.TransactionID, map[string]any{
		"amount_before": before.Amount.String(),
		"amount_after":  txn.Amount.String(),
		"fee_before":    before.Fee.String(),
		"fee_after":     txn.Fee.String(),
	}))
	if result.FloatAccount != nil {
		s.warnThresholds(ctx, cmd.Actor, *result.FloatAccount)
	}
	return result, nil
}

// applyEditDelta brings the float and the ledger in line with an edited
// transaction. The float target is compared against what the entry log says
// was applied so far, which keeps repeated edits from compounding.
func (s *transactionDispatcher) applyEditDelta(ctx context.Context, txn, before domain.Transaction, actor domain.Actor, result *domain.TransactionResult) error {
	target, ok := txn.FloatDelta()
	if !ok {
		return validationError("transaction type %q is not supported by %s", txn.TransactionType, txn.ServiceType)
	}
	applied, err := s.floatLedger.NetEffect(ctx, txn.ServiceType, txn.TransactionID)
	if err != nil {
		return err
	}
	current, ok := applied[txn.FloatAccountID]
	if !ok {
		current = decimal.Zero
	}
	if diff := target.Sub(current); !diff.IsZero() {
		entry, account, err := s.floatLedger.Apply(ctx, domain.FloatMutation{
			AccountID:    txn.FloatAccountID,
			Delta:        diff,
			EntryType:    domain.EntryTransaction,
			Actor:        actor,
			Description:  fmt.Sprintf("edit of %s %s", txn.ServiceType, txn.TransactionType),
			SourceModule: txn.ServiceType,
			ReferenceID:  txn.TransactionID,
		})
		if err != nil {
			return err
		}
		result.FloatAccount = account
		result.FloatEntries = append(result.FloatEntries, *entry)
	}

	deltaAmount := txn.Amount.Sub(before.Amount)
	deltaFee := txn.Fee.Sub(before.Fee)
	if deltaAmount.IsZero() && deltaFee.IsZero() {
		return nil
	}
	// A delta the mapping never books (a fee change on principal-only legs)
	// has nothing to post.
	if mapping, err := s.resolver.Resolve(ctx, txn.ServiceType, txn.TransactionType, txn.BranchID, txn.FloatAccountID); err == nil &&
		len(accounting.ComputeLegs(*mapping, deltaAmount, deltaFee)) == 0 {
		return nil
	}
	effect := domain.LedgerEffect{
		EffectID:            uuid.NewString(),
		Kind:                domain.EffectPost,
		SourceModule:        txn.ServiceType,
		SourceTransactionID: txn.TransactionID,
		ServiceType:         txn.ServiceType,
		TransactionType:     txn.TransactionType,
		BranchID:            txn.BranchID,
		FloatAccountID:      txn.FloatAccountID,
		Amount:              deltaAmount,
		Fee:                 deltaFee,
		CreatedBy:           actor.UserID,
	}
	if err := s.posting.EnqueueEffect(ctx, effect); err != nil {
		return err
	}
	result.GroupingID = effect.EffectID
	result.ReconciliationPending = true
	s.postAfterCommit(ctx, s.txManager, s.posting, effect, actor, func(entries []domain.GLJournalEntry, pending bool) {
		result.Journal = entries
		result.ReconciliationPending = pending
	})
	return nil
}

type transition struct {
	from    domain.TransactionStatus
	to      domain.TransactionStatus
	effects bool
	event   domain.EventType
}

// transitionsFor returns the status moves an action may perform on a module.
// Jumia complete settles a delivered order or finalizes a pending one in a single step.
func transitionsFor(module domain.ServiceType, action domain.Action) []transition {
	switch {
	case action == domain.ActionComplete && module == domain.ServicePower:
		return []transition{{domain.StatusPending, domain.StatusCompleted, true, domain.EventTransactionCompleted}}
	case action == domain.ActionDeliver && module == domain.ServiceJumia:
		return []transition{{domain.StatusPending, domain.StatusDelivered, true, domain.EventTransactionDelivered}}
	case action == domain.ActionComplete && module == domain.ServiceJumia:
		return []transition{
			{domain.StatusDelivered, domain.StatusSettled, false, domain.EventTransactionSettled},
			{domain.StatusPending, domain.StatusSettled, true, domain.EventTransactionSettled},
		}
	case action == domain.ActionDisburse && module.SupportsDisburse():
		return []transition{{domain.StatusCompleted, domain.StatusDisbursed, false, domain.EventTransactionDisbursed}}
	}
	return nil
}

func pickTransition(moves []transition, from domain.TransactionStatus) (transition, bool) {
	for _, m := range moves {
		if m.from == from {
			return m, true
		}
	}
	return transition{}, false
}

func (s *transactionDispatcher) transition(ctx context.Context, store portsrepo.TransactionRecordStore, cmd domain.Command) (*domain.TransactionResult, error) {
	moves := transitionsFor(cmd.Module, cmd.Action)
	if len(moves) == 0 {
		return nil, fmt.Errorf("%w: %s does not support %s", apperrors.ErrInvalidTransition, cmd.Module, cmd.Action)
	}

	var move transition
	result := &domain.TransactionResult{}
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		txn, err := store.FindForUpdate(ctx, cmd.TransactionID)
		if err != nil {
			return err
		}
		if err := authorizeBranch(cmd.Actor, txn.BranchID); err != nil {
			return err
		}
		switch {
		case txn.Status == domain.StatusReversed:
			return apperrors.ErrAlreadyReversed
		case txn.Status == domain.StatusDisbursed && cmd.Action == domain.ActionDisburse:
			return apperrors.ErrAlreadyDisbursed
		}
		var ok bool
		if move, ok = pickTransition(moves, txn.Status); !ok {
			return fmt.Errorf("%w: cannot %s a %s transaction", apperrors.ErrInvalidTransition, cmd.Action, txn.Status)
		}

		now := s.now()
		if err := store.UpdateStatus(ctx, txn.TransactionID, move.to, nil, cmd.Actor.UserID, now); err != nil {
			return err
		}
		txn.Status = move.to
		txn.LastUpdatedAt = now
		txn.LastUpdatedBy = cmd.Actor.UserID
		result.Transaction = *txn

		if !move.effects {
			return nil
		}
		return s.applyEffects(ctx, *txn, txn.Amount, txn.Fee, cmd.Actor, result)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to change transaction status",
			slog.String("module", string(cmd.Module)),
			slog.String("action", string(cmd.Action)),
			slog.String("transaction_id", cmd.TransactionID),
			slog.String("user_id", cmd.Actor.UserID))
		return nil, err
	}

	txn := result.Transaction
	s.LogInfo(ctx, "Transaction status changed",
		slog.String("module", string(cmd.Module)),
		slog.String("transaction_id", txn.TransactionID),
		slog.String("from", string(move.from)),
		slog.String("to", string(move.to)),
		slog.String("user_id", cmd.Actor.UserID))
	s.emit(ctx, newEvent(move.event, cmd.Actor, txn.BranchID, cmd.Module, txn.TransactionID, map[string]any{
		"from":                   string(move.from),
		"to":                     string(move.to),
		"reconciliation_pending": result.ReconciliationPending,
	}))
	if result.FloatAccount != nil {
		s.warnThresholds(ctx, cmd.Actor, *result.FloatAccount)
	}
	return result, nil
}

func (s *transactionDispatcher) reverse(ctx context.Context, cmd domain.Command) (*domain.TransactionResult, error) {
	if cmd.Action == domain.ActionDelete {
		if err := requireRole(cmd.Actor, domain.RoleAdmin); err != nil {
			return nil, err
		}
	}
	out, err := s.reversal.Execute(ctx, domain.ReversalCommand{
		TransactionID: cmd.TransactionID,
		SourceModule:  cmd.Module,
		Reason:        cmd.Reason,
		Actor:         cmd.Actor,
		Delete:        cmd.Action == domain.ActionDelete,
	})
	if err != nil {
		return nil, err
	}
	result := &domain.TransactionResult{
		Transaction:           out.Transaction,
		FloatEntries:          out.FloatEntries,
		GroupingID:            out.GroupingID,
		Journal:               out.Journal,
		ReconciliationPending: out.ReconciliationPending,
	}
	for i := range out.FloatAccounts {
		if out.FloatAccounts[i].AccountID == out.Transaction.FloatAccountID {
			acc := out.FloatAccounts[i]
			result.FloatAccount = &acc
		}
	}
	return result, nil
}
