package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/branchops/float_ledger/internal/apperrors"
	"github.com/branchops/float_ledger/internal/core/domain"
	portsrepo "github.com/branchops/float_ledger/internal/core/ports/repositories"
	portssvc "github.com/branchops/float_ledger/internal/core/ports/services"
)

type mappingResolver struct {
	BaseService
	glRepo    portsrepo.GLMappingReader
	floatRepo portsrepo.FloatAccountReader
}

// NewMappingResolver creates a MappingResolver over the ledger and account stores.
func NewMappingResolver(glRepo portsrepo.GLMappingReader, floatRepo portsrepo.FloatAccountReader, deps Dependencies) portssvc.MappingResolverSvc {
	return &mappingResolver{
		BaseService: newBaseService(deps),
		glRepo:      glRepo,
		floatRepo:   floatRepo,
	}
}

var _ portssvc.MappingResolverSvc = (*mappingResolver)(nil)

// legsFor keeps the legs that apply to the float account involved.
func legsFor(mappings []domain.GLMapping, floatAccountID string) []domain.GLMapping {
	legs := make([]domain.GLMapping, 0, len(mappings))
	for _, m := range mappings {
		if m.FloatAccountID != nil && *m.FloatAccountID != floatAccountID {
			continue
		}
		legs = append(legs, m)
	}
	return legs
}

func (s *mappingResolver) Resolve(ctx context.Context, serviceType domain.ServiceType, txnType domain.TransactionType, branchID string, floatAccountID string) (*domain.MappingSet, error) {
	set := &domain.MappingSet{
		ServiceType:     serviceType,
		TransactionType: txnType,
		BranchID:        branchID,
		BranchScoped:    true,
	}

	branchRules, err := s.glRepo.ListActiveMappings(ctx, serviceType, txnType, &branchID)
	if err != nil {
		return nil, err
	}
	set.Legs = legsFor(branchRules, floatAccountID)

	if len(set.Legs) == 0 {
		defaults, err := s.glRepo.ListActiveMappings(ctx, serviceType, txnType, nil)
		if err != nil {
			return nil, err
		}
		set.Legs = legsFor(defaults, floatAccountID)
		set.BranchScoped = false
	}

	if !set.HasBothSides() {
		return nil, fmt.Errorf("%w: %s/%s in branch %s", apperrors.ErrMappingNotFound, serviceType, txnType, branchID)
	}

	s.LogDebug(ctx, "Resolved GL mapping",
		slog.String("service_type", string(serviceType)),
		slog.String("transaction_type", string(txnType)),
		slog.String("branch_id", branchID),
		slog.Bool("branch_scoped", set.BranchScoped),
		slog.Int("legs", len(set.Legs)))
	return set, nil
}

func (s *mappingResolver) ResolveFloatAccount(ctx context.Context, serviceType domain.ServiceType, branchID string, explicitID string) (*domain.FloatAccount, error) {
	var account *domain.FloatAccount
	var err error
	if explicitID != "" {
		account, err = s.floatRepo.FindFloatAccountByID(ctx, explicitID)
		if err != nil {
			return nil, err
		}
		if account.BranchID != branchID {
			return nil, validationError("float account %s does not belong to branch %s", explicitID, branchID)
		}
		if want := serviceType.FloatAccountType(); account.AccountType != want {
			return nil, validationError("float account %s is a %s account, %s needs %s", explicitID, account.AccountType, serviceType, want)
		}
	} else {
		account, err = s.floatRepo.FindActiveFloatAccount(ctx, branchID, serviceType.FloatAccountType())
		if err != nil {
			return nil, err
		}
	}
	if !account.IsActive {
		return nil, apperrors.ErrAccountInactive
	}
	return account, nil
}
