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
	"github.com/branchops/float_ledger/internal/platform/observability"
	"github.com/branchops/float_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

type glPostingEngine struct {
	BaseService
	txManager portsrepo.TransactionManager
	glRepo    portsrepo.GLRepositoryFacade
	outbox    portsrepo.OutboxRepositoryFacade
	resolver  portssvc.MappingResolverSvc
}

// NewGLPostingEngine creates the engine that turns mappings and ledger effects into journal batches.
func NewGLPostingEngine(
	txManager portsrepo.TransactionManager,
	glRepo portsrepo.GLRepositoryFacade,
	outbox portsrepo.OutboxRepositoryFacade,
	resolver portssvc.MappingResolverSvc,
	deps Dependencies,
) portssvc.GLPostingSvc {
	return &glPostingEngine{
		BaseService: newBaseService(deps),
		txManager:   txManager,
		glRepo:      glRepo,
		outbox:      outbox,
		resolver:    resolver,
	}
}

var _ portssvc.GLPostingSvc = (*glPostingEngine)(nil)

func (s *glPostingEngine) Post(ctx context.Context, req domain.PostingRequest) ([]domain.GLJournalEntry, error) {
	if req.GroupingID == "" {
		req.GroupingID = uuid.NewString()
	}
	legs := accounting.ComputeLegs(req.Mapping, req.Amount, req.Fee)

	now := s.now()
	entries := make([]domain.GLJournalEntry, 0, len(legs))
	for _, leg := range legs {
		entry := domain.GLJournalEntry{
			EntryID:             uuid.NewString(),
			GroupingID:          req.GroupingID,
			GLAccountID:         leg.GLAccountID,
			Debit:               decimal.Zero,
			Credit:              decimal.Zero,
			BranchID:            req.BranchID,
			SourceModule:        req.SourceModule,
			SourceTransactionID: req.SourceTransactionID,
			Description:         req.Description,
			Status:              domain.EntryPosted,
			CreatedAt:           now,
			CreatedBy:           req.Actor,
		}
		if leg.Side == domain.Debit {
			entry.Debit = leg.Amount
		} else {
			entry.Credit = leg.Amount
		}
		entries = append(entries, entry)
	}

	if err := accounting.ValidateBalance(entries); err != nil {
		return nil, fmt.Errorf("grouping %s: %w", req.GroupingID, err)
	}
	if err := s.glRepo.InsertEntries(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *glPostingEngine) EnqueueEffect(ctx context.Context, effect domain.LedgerEffect) error {
	if effect.EffectID == "" {
		effect.EffectID = uuid.NewString()
	}
	if effect.CreatedAt.IsZero() {
		effect.CreatedAt = s.now()
	}
	effect.Status = domain.EffectPending
	effect.Attempts = 0
	return s.outbox.SaveEffect(ctx, effect)
}

func (s *glPostingEngine) PostEffect(ctx context.Context, effectID string) (entries []domain.GLJournalEntry, err error) {
	ctx, span := observability.StartSpan(ctx, "gl.post_effect", attribute.String("grouping_id", effectID))
	defer func() { observability.EndSpan(span, err) }()

	alreadyDone := false
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		effect, err := s.outbox.LockPendingEffect(ctx, effectID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				alreadyDone = true
				return nil
			}
			return err
		}
		entries, err = s.postLocked(ctx, *effect)
		if err != nil {
			return err
		}
		return s.outbox.MarkEffectPosted(ctx, effectID, s.now())
	})
	if err != nil {
		s.metrics().IncrPosting("failed")
		if recErr := s.outbox.RecordEffectFailure(ctx, effectID, err.Error()); recErr != nil {
			s.LogError(ctx, recErr, "Failed to record ledger effect failure", slog.String("grouping_id", effectID))
		}
		return nil, err
	}
	if alreadyDone {
		current, findErr := s.outbox.FindEffectByID(ctx, effectID)
		if findErr != nil {
			return nil, findErr
		}
		if current.Status == domain.EffectPending {
			// Still pending but locked: another poster is mid-flight.
			s.metrics().IncrPosting("in_flight")
			return nil, apperrors.ErrEffectInFlight
		}
		// Posted or cancelled elsewhere; return whatever reached the ledger.
		s.metrics().IncrPosting("skipped")
		return s.glRepo.FindEntriesByGrouping(ctx, effectID)
	}

	s.metrics().IncrPosting("posted")
	s.LogInfo(ctx, "Ledger effect posted",
		slog.String("grouping_id", effectID),
		slog.Int("entries", len(entries)))
	return entries, nil
}

func (s *glPostingEngine) postLocked(ctx context.Context, effect domain.LedgerEffect) ([]domain.GLJournalEntry, error) {
	switch effect.Kind {
	case domain.EffectPost:
		mapping, err := s.resolver.Resolve(ctx, effect.ServiceType, effect.TransactionType, effect.BranchID, effect.FloatAccountID)
		if err != nil {
			return nil, err
		}
		if len(accounting.ComputeLegs(*mapping, effect.Amount, effect.Fee)) == 0 {
			// The mapping carries none of the changed parts, so the ledger is already in line.
			return []domain.GLJournalEntry{}, nil
		}
		return s.Post(ctx, domain.PostingRequest{
			GroupingID:          effect.EffectID,
			Mapping:             *mapping,
			Amount:              effect.Amount,
			Fee:                 effect.Fee,
			BranchID:            effect.BranchID,
			SourceModule:        effect.SourceModule,
			SourceTransactionID: effect.SourceTransactionID,
			Description:         fmt.Sprintf("%s %s %s", effect.ServiceType, effect.TransactionType, effect.SourceTransactionID),
			Actor:               effect.CreatedBy,
		})
	case domain.EffectReverse:
		entries, err := s.BuildReversal(ctx, effect.EffectID, effect.SourceModule, effect.SourceTransactionID, effect.CreatedBy)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			// Nothing had reached the ledger yet.
			return entries, nil
		}
		if err := accounting.ValidateBalance(entries); err != nil {
			return nil, fmt.Errorf("grouping %s: %w", effect.EffectID, err)
		}
		if err := s.glRepo.InsertEntries(ctx, entries); err != nil {
			return nil, err
		}
		return entries, nil
	}
	return nil, fmt.Errorf("%w: unknown ledger effect kind %q", apperrors.ErrValidation, effect.Kind)
}

func (s *glPostingEngine) BuildReversal(ctx context.Context, groupingID string, sourceModule domain.ServiceType, sourceTransactionID string, actorID string) ([]domain.GLJournalEntry, error) {
	posted, err := s.glRepo.FindPostedEntriesBySource(ctx, sourceModule, sourceTransactionID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	swapped := make([]domain.GLJournalEntry, 0, len(posted))
	for _, e := range posted {
		mirror := accounting.SwapEntry(e)
		mirror.EntryID = uuid.NewString()
		mirror.GroupingID = groupingID
		mirror.Description = "Reversal of " + e.GroupingID
		mirror.Status = domain.EntryPosted
		mirror.CreatedAt = now
		mirror.CreatedBy = actorID
		swapped = append(swapped, mirror)
	}
	return swapped, nil
}

// postAfterCommit posts a ledger effect once the caller's unit of work has
// committed. A failure leaves the effect pending for the relay; onDone always
// runs and learns whether the journal is still outstanding.
func (s *BaseService) postAfterCommit(
	ctx context.Context,
	txManager portsrepo.TransactionManager,
	posting portssvc.GLPostingSvc,
	effect domain.LedgerEffect,
	actor domain.Actor,
	onDone func(entries []domain.GLJournalEntry, pending bool),
) {
	txManager.AfterCommit(ctx, func(ctx context.Context) {
		entries, err := posting.PostEffect(ctx, effect.EffectID)
		if errors.Is(err, apperrors.ErrEffectInFlight) {
			s.LogDebug(ctx, "Ledger effect held by another poster",
				slog.String("grouping_id", effect.EffectID))
			onDone(nil, true)
			return
		}
		if err != nil {
			s.LogWarn(ctx, err, "GL posting deferred, ledger effect left pending",
				slog.String("grouping_id", effect.EffectID),
				slog.String("source_module", string(effect.SourceModule)),
				slog.String("transaction_id", effect.SourceTransactionID),
				slog.String("amount", effect.Amount.String()))
			s.emit(ctx, newEvent(domain.EventLedgerPostingFailed, actor, effect.BranchID, effect.SourceModule, effect.SourceTransactionID, map[string]any{
				"grouping_id": effect.EffectID,
				"kind":        string(effect.Kind),
				"error":       err.Error(),
			}))
			onDone(nil, true)
			return
		}
		onDone(entries, false)
	})
}
