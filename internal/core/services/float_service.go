package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/branchops/float_ledger/internal/apperrors"
	"github.com/branchops/float_ledger/internal/core/domain"
	portsrepo "github.com/branchops/float_ledger/internal/core/ports/repositories"
	portssvc "github.com/branchops/float_ledger/internal/core/ports/services"
	"github.com/branchops/float_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// floatService moves value between float accounts and records the GL side
// of each move under the float source module.
type floatService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accounts    portsrepo.FloatAccountReader
	floatLedger portssvc.FloatLedgerSvc
	posting     portssvc.GLPostingSvc
}

// NewFloatService creates the float recharge and exchange service.
func NewFloatService(
	txManager portsrepo.TransactionManager,
	accounts portsrepo.FloatAccountReader,
	floatLedger portssvc.FloatLedgerSvc,
	posting portssvc.GLPostingSvc,
	deps Dependencies,
) portssvc.FloatOperationsSvc {
	return &floatService{
		BaseService: newBaseService(deps),
		txManager:   txManager,
		accounts:    accounts,
		floatLedger: floatLedger,
		posting:     posting,
	}
}

var _ portssvc.FloatOperationsSvc = (*floatService)(nil)

func (s *floatService) Recharge(ctx context.Context, req dto.RechargeFloatRequest, actor domain.Actor) (*domain.TransferResult, error) {
	if req.SourceAccountID == req.TargetAccountID {
		return nil, validationError("source and target accounts must differ")
	}
	if !domain.RoundMoney(req.Amount).IsPositive() {
		return nil, validationError("amount must be greater than zero")
	}
	target, err := s.accounts.FindFloatAccountByID(ctx, req.TargetAccountID)
	if err != nil {
		return nil, err
	}
	source, err := s.accounts.FindFloatAccountByID(ctx, req.SourceAccountID)
	if err != nil {
		return nil, err
	}
	if err := authorizeBranch(actor, target.BranchID); err != nil {
		return nil, err
	}
	if err := authorizeBranch(actor, source.BranchID); err != nil {
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Recharge of %s from %s", target.AccountType, source.AccountType)
	}
	result, err := s.move(ctx, domain.FloatTransfer{
		FromAccountID: source.AccountID,
		ToAccountID:   target.AccountID,
		Amount:        req.Amount,
		OutType:       domain.EntryTransferOut,
		InType:        domain.EntryRecharge,
		Actor:         actor,
		Description:   description,
		SourceModule:  domain.ServiceFloat,
		ReferenceID:   uuid.NewString(),
	}, domain.TxnRecharge, *target)
	if err != nil {
		s.LogError(ctx, err, "Failed to recharge float",
			slog.String("target_account_id", req.TargetAccountID),
			slog.String("source_account_id", req.SourceAccountID),
			slog.String("amount", req.Amount.String()),
			slog.String("user_id", actor.UserID))
		return nil, err
	}

	s.LogInfo(ctx, "Float recharged",
		slog.String("reference_id", result.ReferenceID),
		slog.String("target_account_id", result.To.AccountID),
		slog.String("new_target_balance", result.To.Balance.String()),
		slog.String("new_source_balance", result.From.Balance.String()),
		slog.String("user_id", actor.UserID))
	s.emit(ctx, newEvent(domain.EventFloatRecharged, actor, result.To.BranchID, domain.ServiceFloat, result.ReferenceID, map[string]any{
		"source_account_id":      result.From.AccountID,
		"target_account_id":      result.To.AccountID,
		"amount":                 result.InEntry.Amount.String(),
		"reconciliation_pending": result.ReconciliationPending,
	}))
	s.warnThresholds(ctx, actor, result.From, result.To)
	return result, nil
}

func (s *floatService) Exchange(ctx context.Context, req dto.ExchangeFloatRequest, actor domain.Actor) (*domain.TransferResult, error) {
	if !domain.RoundMoney(req.Amount).IsPositive() {
		return nil, validationError("amount must be greater than zero")
	}
	direction := req.Direction
	if direction == "" {
		direction = dto.CashToFloat
	}
	branchID := req.BranchID
	if branchID == "" {
		branchID = actor.BranchID
	}
	if err := authorizeBranch(actor, branchID); err != nil {
		return nil, err
	}

	floatAccount, err := s.accounts.FindFloatAccountByID(ctx, req.FloatAccountID)
	if err != nil {
		return nil, err
	}
	if floatAccount.BranchID != branchID {
		return nil, validationError("float account %s does not belong to branch %s", floatAccount.AccountID, branchID)
	}
	if floatAccount.AccountType == domain.FloatCashInTill {
		return nil, validationError("exchange target must be a float account, not the cash till")
	}
	till, err := s.accounts.FindActiveFloatAccount(ctx, branchID, domain.FloatCashInTill)
	if err != nil {
		return nil, fmt.Errorf("cash till for branch %s: %w", branchID, err)
	}

	transfer := domain.FloatTransfer{
		FromAccountID: till.AccountID,
		ToAccountID:   floatAccount.AccountID,
		Amount:        req.Amount,
		OutType:       domain.EntryExchangeOut,
		InType:        domain.EntryExchangeIn,
		Actor:         actor,
		Description:   fmt.Sprintf("Exchange cash for %s", floatAccount.AccountType),
		SourceModule:  domain.ServiceFloat,
		ReferenceID:   uuid.NewString(),
	}
	if direction == dto.FloatToCash {
		transfer.FromAccountID, transfer.ToAccountID = floatAccount.AccountID, till.AccountID
		transfer.Description = fmt.Sprintf("Exchange %s for cash", floatAccount.AccountType)
	}
	glAmount := domain.RoundMoney(req.Amount)
	if direction == dto.FloatToCash {
		// The mapping is written for cash to float; the reverse direction flips every leg.
		glAmount = glAmount.Neg()
	}

	result, err := s.moveWithAmount(ctx, transfer, domain.TxnExchange, *floatAccount, glAmount)
	if err != nil {
		s.LogError(ctx, err, "Failed to exchange float",
			slog.String("float_account_id", req.FloatAccountID),
			slog.String("direction", string(direction)),
			slog.String("amount", req.Amount.String()),
			slog.String("user_id", actor.UserID))
		return nil, err
	}

	s.LogInfo(ctx, "Float exchanged",
		slog.String("reference_id", result.ReferenceID),
		slog.String("direction", string(direction)),
		slog.String("from_balance", result.From.Balance.String()),
		slog.String("to_balance", result.To.Balance.String()),
		slog.String("user_id", actor.UserID))
	s.emit(ctx, newEvent(domain.EventFloatExchanged, actor, branchID, domain.ServiceFloat, result.ReferenceID, map[string]any{
		"direction":              string(direction),
		"float_account_id":       floatAccount.AccountID,
		"cash_till_id":           till.AccountID,
		"amount":                 result.InEntry.Amount.String(),
		"reconciliation_pending": result.ReconciliationPending,
	}))
	s.warnThresholds(ctx, actor, result.From, result.To)
	return result, nil
}

func (s *floatService) move(ctx context.Context, transfer domain.FloatTransfer, txnType domain.TransactionType, glAccount domain.FloatAccount) (*domain.TransferResult, error) {
	return s.moveWithAmount(ctx, transfer, txnType, glAccount, domain.RoundMoney(transfer.Amount))
}

// moveWithAmount runs the transfer and enqueues its ledger effect in one unit
// of work. glAccount is the float account the mapping is resolved against.
func (s *floatService) moveWithAmount(ctx context.Context, transfer domain.FloatTransfer, txnType domain.TransactionType, glAccount domain.FloatAccount, glAmount decimal.Decimal) (*domain.TransferResult, error) {
	var result *domain.TransferResult
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.floatLedger.Transfer(ctx, transfer)
		if err != nil {
			return err
		}
		effect := domain.LedgerEffect{
			EffectID:            uuid.NewString(),
			Kind:                domain.EffectPost,
			SourceModule:        domain.ServiceFloat,
			SourceTransactionID: transfer.ReferenceID,
			ServiceType:         domain.ServiceFloat,
			TransactionType:     txnType,
			BranchID:            glAccount.BranchID,
			FloatAccountID:      glAccount.AccountID,
			Amount:              glAmount,
			Fee:                 decimal.Zero,
			CreatedBy:           transfer.Actor.UserID,
		}
		if err := s.posting.EnqueueEffect(ctx, effect); err != nil {
			return err
		}
		result.ReconciliationPending = true
		s.postAfterCommit(ctx, s.txManager, s.posting, effect, transfer.Actor, func(_ []domain.GLJournalEntry, pending bool) {
			result.ReconciliationPending = pending
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("%w: transfer returned no result", apperrors.ErrInternal)
	}
	return result, nil
}
