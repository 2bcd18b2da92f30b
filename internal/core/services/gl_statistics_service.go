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
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type glStatisticsService struct {
	BaseService
	statsRepo portsrepo.GLStatisticsRepository
	glRepo    portsrepo.JournalEntryReader
	floatRepo portsrepo.FloatAccountRepositoryFacade
	outbox    portsrepo.LedgerEffectReader
}

// NewGLStatisticsService creates the ledger health reporting service.
func NewGLStatisticsService(
	statsRepo portsrepo.GLStatisticsRepository,
	glRepo portsrepo.JournalEntryReader,
	floatRepo portsrepo.FloatAccountRepositoryFacade,
	outbox portsrepo.LedgerEffectReader,
	deps Dependencies,
) portssvc.GLStatisticsSvc {
	return &glStatisticsService{
		BaseService: newBaseService(deps),
		statsRepo:   statsRepo,
		glRepo:      glRepo,
		floatRepo:   floatRepo,
		outbox:      outbox,
	}
}

var _ portssvc.GLStatisticsSvc = (*glStatisticsService)(nil)

func (s *glStatisticsService) Statistics(ctx context.Context, branchID *string, actor domain.Actor) (*domain.GLStatistics, error) {
	if actor.UserID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	scope, err := branchScope(actor, branchID)
	if err != nil {
		return nil, err
	}

	var (
		balances   []domain.GLAccountBalance
		unbalanced []domain.UnbalancedGrouping
		pendingBy  map[string]int
		entrySums  map[string]decimal.Decimal
		floats     []domain.FloatAccount
		pending    int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		balances, err = s.statsRepo.AccountBalances(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		unbalanced, err = s.statsRepo.UnbalancedGroupings(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		pendingBy, err = s.statsRepo.PendingEffectsByAccount(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		entrySums, err = s.floatRepo.SumEntriesByAccount(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		floats, err = s.floatRepo.ListFloatAccounts(gctx, scope)
		return err
	})
	g.Go(func() (err error) {
		pending, err = s.outbox.CountPendingEffects(gctx, scope)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to compute GL statistics")
		return nil, err
	}

	stats := &domain.GLStatistics{
		TotalDebits:         decimal.Zero,
		TotalCredits:        decimal.Zero,
		Accounts:            balances,
		UnbalancedGroupings: unbalanced,
		PendingEffects:      pending,
	}
	if scope != nil {
		stats.BranchID = *scope
	}
	for _, b := range balances {
		stats.TotalDebits = stats.TotalDebits.Add(b.Debit)
		stats.TotalCredits = stats.TotalCredits.Add(b.Credit)
	}
	stats.IsBalanced = stats.TotalDebits.Equal(stats.TotalCredits) && len(unbalanced) == 0
	stats.Floats = reconcileFloats(floats, entrySums, pendingBy)

	if scope == nil {
		s.metrics().SetPendingEffects(pending)
	}
	if !stats.IsBalanced {
		s.GetLogger(ctx).Warn("General ledger out of balance",
			slog.String("total_debits", stats.TotalDebits.String()),
			slog.String("total_credits", stats.TotalCredits.String()),
			slog.Int("unbalanced_groupings", len(unbalanced)))
	}
	return stats, nil
}

// reconcileFloats compares each stored balance with the replay of its entry log.
func reconcileFloats(floats []domain.FloatAccount, entrySums map[string]decimal.Decimal, pendingBy map[string]int) []domain.FloatReconciliation {
	out := make([]domain.FloatReconciliation, 0, len(floats))
	for _, acc := range floats {
		replayed, ok := entrySums[acc.AccountID]
		if !ok {
			replayed = decimal.Zero
		}
		out = append(out, domain.FloatReconciliation{
			AccountID:      acc.AccountID,
			AccountType:    acc.AccountType,
			StoredBalance:  acc.Balance,
			EntryBalance:   replayed,
			Difference:     acc.Balance.Sub(replayed),
			PendingEffects: pendingBy[acc.AccountID],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out
}

func (s *glStatisticsService) Grouping(ctx context.Context, groupingID string, actor domain.Actor) ([]domain.GLJournalEntry, error) {
	if actor.UserID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	entries, err := s.glRepo.FindEntriesByGrouping(ctx, groupingID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("grouping %s: %w", groupingID, apperrors.ErrNotFound)
	}
	for _, e := range entries {
		if err := authorizeBranch(actor, e.BranchID); err != nil {
			return nil, err
		}
	}
	return entries, nil
}
