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
)

type glConfigService struct {
	BaseService
	glRepo    portsrepo.GLRepositoryFacade
	floatRepo portsrepo.FloatAccountReader
}

// NewGLConfigService creates the GL account and mapping administration service.
func NewGLConfigService(glRepo portsrepo.GLRepositoryFacade, floatRepo portsrepo.FloatAccountReader, deps Dependencies) portssvc.GLConfigSvc {
	return &glConfigService{
		BaseService: newBaseService(deps),
		glRepo:      glRepo,
		floatRepo:   floatRepo,
	}
}

var _ portssvc.GLConfigSvc = (*glConfigService)(nil)

func (s *glConfigService) CreateGLAccount(ctx context.Context, req dto.CreateGLAccountRequest, actor domain.Actor) (*domain.GLAccount, error) {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleFinance); err != nil {
		return nil, err
	}
	if !req.AccountType.Valid() {
		return nil, validationError("unknown GL account type %q", req.AccountType)
	}
	account := domain.GLAccount{
		AccountID:   uuid.NewString(),
		Code:        req.Code,
		Name:        req.Name,
		AccountType: req.AccountType,
		BranchID:    req.BranchID,
		IsActive:    true,
		AuditFields: domain.NewAuditFields(actor.UserID, s.now()),
	}
	if err := s.glRepo.SaveGLAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to create GL account",
			slog.String("code", req.Code),
			slog.String("user_id", actor.UserID))
		return nil, err
	}
	s.LogInfo(ctx, "GL account created",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code),
		slog.String("account_type", string(account.AccountType)))
	return &account, nil
}

func (s *glConfigService) ListGLAccounts(ctx context.Context, branchID *string, actor domain.Actor) ([]domain.GLAccount, error) {
	scope, err := branchScope(actor, branchID)
	if err != nil {
		return nil, err
	}
	return s.glRepo.ListGLAccounts(ctx, scope)
}

// mappable reports whether a mapping for the pair can ever be used.
func mappable(serviceType domain.ServiceType, txnType domain.TransactionType) bool {
	if serviceType == domain.ServiceFloat {
		return txnType == domain.TxnRecharge || txnType == domain.TxnExchange
	}
	_, ok := domain.DirectionFor(serviceType, txnType)
	return ok
}

func (s *glConfigService) CreateMapping(ctx context.Context, req dto.CreateGLMappingRequest, actor domain.Actor) (*domain.GLMapping, error) {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleFinance); err != nil {
		return nil, err
	}
	if !mappable(req.ServiceType, req.TransactionType) {
		return nil, validationError("%s has no transaction type %q", req.ServiceType, req.TransactionType)
	}
	if req.Side != domain.Debit && req.Side != domain.Credit {
		return nil, validationError("side must be DEBIT or CREDIT")
	}
	basis := req.Basis
	if basis == "" {
		basis = domain.BasisPrincipal
	}
	if !basis.Valid() {
		return nil, validationError("unknown mapping basis %q", basis)
	}

	glAccount, err := s.glRepo.FindGLAccountByID(ctx, req.GLAccountID)
	if err != nil {
		return nil, err
	}
	if !glAccount.IsActive {
		return nil, fmt.Errorf("%w: GL account %s is inactive", apperrors.ErrValidation, glAccount.AccountID)
	}
	if req.FloatAccountID != nil {
		if _, err := s.floatRepo.FindFloatAccountByID(ctx, *req.FloatAccountID); err != nil {
			return nil, err
		}
	}

	mapping := domain.GLMapping{
		MappingID:       uuid.NewString(),
		ServiceType:     req.ServiceType,
		TransactionType: req.TransactionType,
		BranchID:        req.BranchID,
		FloatAccountID:  req.FloatAccountID,
		GLAccountID:     glAccount.AccountID,
		Side:            req.Side,
		Basis:           basis,
		IsActive:        true,
		AuditFields:     domain.NewAuditFields(actor.UserID, s.now()),
	}
	if err := s.glRepo.SaveMapping(ctx, mapping); err != nil {
		s.LogError(ctx, err, "Failed to create GL mapping",
			slog.String("service_type", string(req.ServiceType)),
			slog.String("transaction_type", string(req.TransactionType)),
			slog.String("user_id", actor.UserID))
		return nil, err
	}
	s.LogInfo(ctx, "GL mapping created",
		slog.String("mapping_id", mapping.MappingID),
		slog.String("service_type", string(mapping.ServiceType)),
		slog.String("transaction_type", string(mapping.TransactionType)),
		slog.String("side", string(mapping.Side)))
	return &mapping, nil
}

func (s *glConfigService) ListMappings(ctx context.Context, serviceType *domain.ServiceType, actor domain.Actor) ([]domain.GLMapping, error) {
	if actor.UserID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	return s.glRepo.ListMappings(ctx, serviceType)
}

func (s *glConfigService) DeactivateMapping(ctx context.Context, mappingID string, actor domain.Actor) error {
	if err := requireRole(actor, domain.RoleAdmin, domain.RoleFinance); err != nil {
		return err
	}
	if err := s.glRepo.DeactivateMapping(ctx, mappingID, actor.UserID, s.now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate GL mapping", slog.String("mapping_id", mappingID))
		return err
	}
	s.LogInfo(ctx, "GL mapping deactivated",
		slog.String("mapping_id", mappingID),
		slog.String("user_id", actor.UserID))
	return nil
}
