package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/branchops/float_ledger/internal/apperrors"
	"github.com/branchops/float_ledger/internal/core/domain"
	portsrepo "github.com/branchops/float_ledger/internal/core/ports/repositories"
	portssvc "github.com/branchops/float_ledger/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// floatLedger is the only writer of float balances. Every mutation locks the
// account row, checks the resulting balance and appends exactly one entry.
type floatLedger struct {
	BaseService
	txManager portsrepo.TransactionManager
	repo      portsrepo.FloatAccountRepositoryFacade
}

// NewFloatLedger creates a FloatLedger.
func NewFloatLedger(txManager portsrepo.TransactionManager, repo portsrepo.FloatAccountRepositoryFacade, deps Dependencies) portssvc.FloatLedgerSvc {
	return &floatLedger{
		BaseService: newBaseService(deps),
		txManager:   txManager,
		repo:        repo,
	}
}

var _ portssvc.FloatLedgerSvc = (*floatLedger)(nil)

func (s *floatLedger) Apply(ctx context.Context, mutation domain.FloatMutation) (*domain.FloatTransactionEntry, *domain.FloatAccount, error) {
	if mutation.AccountID == "" {
		return nil, nil, validationError("float mutation requires an account id")
	}
	if mutation.Delta.IsZero() {
		return nil, nil, validationError("float mutation delta must not be zero")
	}

	var entry domain.FloatTransactionEntry
	var account domain.FloatAccount
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.repo.LockFloatAccounts(ctx, []string{mutation.AccountID})
		if err != nil {
			return err
		}
		current, ok := locked[mutation.AccountID]
		if !ok {
			return apperrors.ErrAccountNotFound
		}
		entry, account, err = s.applyLocked(ctx, current, mutation)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return &entry, &account, nil
}

// applyLocked mutates an account the caller has already locked.
func (s *floatLedger) applyLocked(ctx context.Context, account domain.FloatAccount, mutation domain.FloatMutation) (domain.FloatTransactionEntry, domain.FloatAccount, error) {
	// Compensation may still land on a deactivated account.
	if !account.IsActive && mutation.EntryType != domain.EntryReversal && mutation.EntryType != domain.EntryAdjustment {
		return domain.FloatTransactionEntry{}, account, fmt.Errorf("%w: %s", apperrors.ErrAccountInactive, account.AccountID)
	}

	delta := domain.RoundMoney(mutation.Delta)
	before := account.Balance
	after := before.Add(delta)
	if after.IsNegative() && !mutation.EntryType.AllowsNegative() {
		return domain.FloatTransactionEntry{}, account, fmt.Errorf("%w: account %s holds %s, requested change %s",
			apperrors.ErrInsufficientBalance, account.AccountID, before.StringFixed(domain.MoneyScale), delta.StringFixed(domain.MoneyScale))
	}

	now := s.now()
	if err := s.repo.UpdateFloatBalance(ctx, account.AccountID, after, mutation.Actor.UserID, now); err != nil {
		return domain.FloatTransactionEntry{}, account, err
	}

	entry := domain.FloatTransactionEntry{
		EntryID:       uuid.NewString(),
		AccountID:     account.AccountID,
		EntryType:     mutation.EntryType,
		Amount:        delta,
		BalanceBefore: before,
		BalanceAfter:  after,
		SourceModule:  mutation.SourceModule,
		ReferenceID:   mutation.ReferenceID,
		Description:   mutation.Description,
		CreatedBy:     mutation.Actor.UserID,
		CreatedAt:     now,
	}
	if err := s.repo.InsertFloatEntry(ctx, entry); err != nil {
		return domain.FloatTransactionEntry{}, account, err
	}

	account.Balance = after
	account.LastUpdatedAt = now
	account.LastUpdatedBy = mutation.Actor.UserID
	s.metrics().IncrFloatMutation(string(mutation.EntryType))

	s.LogDebug(ctx, "Float balance updated",
		slog.String("account_id", account.AccountID),
		slog.String("entry_type", string(mutation.EntryType)),
		slog.String("delta", delta.String()),
		slog.String("balance_after", after.String()),
		slog.String("reference_id", mutation.ReferenceID))
	return entry, account, nil
}

func (s *floatLedger) Transfer(ctx context.Context, transfer domain.FloatTransfer) (*domain.TransferResult, error) {
	amount := domain.RoundMoney(transfer.Amount)
	if !amount.IsPositive() {
		return nil, validationError("transfer amount must be greater than zero")
	}
	if transfer.FromAccountID == "" || transfer.ToAccountID == "" {
		return nil, validationError("transfer requires source and target accounts")
	}
	if transfer.FromAccountID == transfer.ToAccountID {
		return nil, validationError("transfer source and target must differ")
	}

	result := &domain.TransferResult{ReferenceID: transfer.ReferenceID}
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		// Both rows are locked in ascending id order before either is touched.
		locked, err := s.repo.LockFloatAccounts(ctx, []string{transfer.FromAccountID, transfer.ToAccountID})
		if err != nil {
			return err
		}
		from, ok := locked[transfer.FromAccountID]
		if !ok {
			return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, transfer.FromAccountID)
		}
		to, ok := locked[transfer.ToAccountID]
		if !ok {
			return fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, transfer.ToAccountID)
		}
		if !to.IsActive {
			return fmt.Errorf("%w: %s", apperrors.ErrAccountInactive, to.AccountID)
		}

		result.OutEntry, result.From, err = s.applyLocked(ctx, from, domain.FloatMutation{
			AccountID:    from.AccountID,
			Delta:        amount.Neg(),
			EntryType:    transfer.OutType,
			Actor:        transfer.Actor,
			Description:  transfer.Description,
			SourceModule: transfer.SourceModule,
			ReferenceID:  transfer.ReferenceID,
		})
		if err != nil {
			return err
		}
		result.InEntry, result.To, err = s.applyLocked(ctx, to, domain.FloatMutation{
			AccountID:    to.AccountID,
			Delta:        amount,
			EntryType:    transfer.InType,
			Actor:        transfer.Actor,
			Description:  transfer.Description,
			SourceModule: transfer.SourceModule,
			ReferenceID:  transfer.ReferenceID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *floatLedger) NetEffect(ctx context.Context, sourceModule domain.ServiceType, referenceID string) (map[string]decimal.Decimal, error) {
	sums, err := s.repo.SumEntriesByReference(ctx, sourceModule, referenceID)
	if err != nil {
		return nil, err
	}
	for id, v := range sums {
		if v.IsZero() {
			delete(sums, id)
		}
	}
	return sums, nil
}

// warnThresholds logs and reports accounts that left their configured band.
func (s *BaseService) warnThresholds(ctx context.Context, actor domain.Actor, accounts ...domain.FloatAccount) {
	for _, acc := range accounts {
		var breach string
		switch {
		case acc.BelowMin():
			breach = "below_min"
		case acc.AboveMax():
			breach = "above_max"
		default:
			continue
		}
		s.GetLogger(ctx).Warn("Float balance outside threshold",
			slog.String("account_id", acc.AccountID),
			slog.String("branch_id", acc.BranchID),
			slog.String("breach", breach),
			slog.String("balance", acc.Balance.String()))
		s.emit(ctx, newEvent(domain.EventFloatThreshold, actor, acc.BranchID, "", acc.AccountID, map[string]any{
			"breach":        breach,
			"balance":       acc.Balance.String(),
			"min_threshold": acc.MinThreshold.String(),
			"max_threshold": acc.MaxThreshold.String(),
		}))
	}
}
