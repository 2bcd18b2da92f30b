package services

import (
	"context"
	"log/slog"

	"github.com/branchops/float_ledger/internal/core/domain"
	portsrepo "github.com/branchops/float_ledger/internal/core/ports/repositories"
	portssvc "github.com/branchops/float_ledger/internal/core/ports/services"
	"github.com/branchops/float_ledger/internal/dto"
	"github.com/google/uuid"
)

type floatAccountService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	repo        portsrepo.FloatAccountRepositoryFacade
	floatLedger portssvc.FloatLedgerSvc
}

// NewFloatAccountService creates a new FloatAccountService
func NewFloatAccountService(txManager portsrepo.TransactionManager, repo portsrepo.FloatAccountRepositoryFacade, floatLedger portssvc.FloatLedgerSvc, deps Dependencies) portssvc.FloatAccountSvc {
	return &floatAccountService{
		BaseService: newBaseService(deps),
		txManager:   txManager,
		repo:        repo,
		floatLedger: floatLedger,
	}
}

var _ portssvc.FloatAccountSvc = (*floatAccountService)(nil)

func (s *floatAccountService) CreateFloatAccount(ctx context.Context, req dto.CreateFloatAccountRequest, actor domain.Actor) (*domain.FloatAccount, error) {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleFinance); err != nil {
		return nil, err
	}
	if !req.AccountType.Valid() {
		return nil, validationError("unknown float account type %q", req.AccountType)
	}
	opening := domain.RoundMoney(req.OpeningBalance)
	minThreshold := domain.RoundMoney(req.MinThreshold)
	maxThreshold := domain.RoundMoney(req.MaxThreshold)
	if opening.IsNegative() || minThreshold.IsNegative() || maxThreshold.IsNegative() {
		return nil, validationError("opening balance and thresholds must not be negative")
	}
	if maxThreshold.IsPositive() && minThreshold.GreaterThan(maxThreshold) {
		return nil, validationError("minimum threshold %s exceeds maximum %s", minThreshold.String(), maxThreshold.String())
	}

	now := s.now()
	account := domain.FloatAccount{
		AccountID:    uuid.NewString(),
		BranchID:     req.BranchID,
		AccountType:  req.AccountType,
		Provider:     req.Provider,
		MinThreshold: minThreshold,
		MaxThreshold: maxThreshold,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(actor.UserID, now),
	}
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.SaveFloatAccount(ctx, account); err != nil {
			return err
		}
		if opening.IsZero() {
			return nil
		}
		// The opening balance goes through the ledger so the entry log replays to it.
		_, updated, err := s.floatLedger.Apply(ctx, domain.FloatMutation{
			AccountID:    account.AccountID,
			Delta:        opening,
			EntryType:    domain.EntryAdjustment,
			Actor:        actor,
			Description:  "Opening balance",
			SourceModule: domain.ServiceFloat,
			ReferenceID:  account.AccountID,
		})
		if err != nil {
			return err
		}
		account = *updated
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create float account",
			slog.String("branch_id", req.BranchID),
			slog.String("account_type", string(req.AccountType)),
			slog.String("user_id", actor.UserID))
		return nil, err
	}

	s.LogInfo(ctx, "Float account created",
		slog.String("account_id", account.AccountID),
		slog.String("branch_id", account.BranchID),
		slog.String("account_type", string(account.AccountType)),
		slog.String("opening_balance", opening.String()),
		slog.String("user_id", actor.UserID))
	return &account, nil
}

func (s *floatAccountService) GetFloatAccount(ctx context.Context, accountID string, actor domain.Actor) (*domain.FloatAccount, error) {
	account, err := s.repo.FindFloatAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if err := authorizeBranch(actor, account.BranchID); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *floatAccountService) ListFloatAccounts(ctx context.Context, branchID *string, actor domain.Actor) ([]domain.FloatAccount, error) {
	scope, err := branchScope(actor, branchID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListFloatAccounts(ctx, scope)
}

func (s *floatAccountService) ListFloatEntries(ctx context.Context, accountID string, actor domain.Actor, params dto.ListFloatEntriesParams) (*dto.ListFloatEntriesResponse, error) {
	if _, err := s.GetFloatAccount(ctx, accountID, actor); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	entries, next, err := s.repo.ListFloatEntries(ctx, accountID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list float entries", slog.String("account_id", accountID))
		return nil, err
	}
	return &dto.ListFloatEntriesResponse{
		Entries:   dto.ToFloatEntryResponses(entries),
		NextToken: next,
	}, nil
}

func (s *floatAccountService) DeactivateFloatAccount(ctx context.Context, accountID string, actor domain.Actor) error {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleFinance); err != nil {
		return err
	}
	if _, err := s.repo.FindFloatAccountByID(ctx, accountID); err != nil {
		return err
	}
	if err := s.repo.DeactivateFloatAccount(ctx, accountID, actor.UserID, s.now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate float account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Float account deactivated",
		slog.String("account_id", accountID),
		slog.String("user_id", actor.UserID))
	return nil
}
