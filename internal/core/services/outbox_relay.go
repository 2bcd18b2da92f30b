package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/branchops/float_ledger/internal/apperrors"
	portsrepo "github.com/branchops/float_ledger/internal/core/ports/repositories"
	portssvc "github.com/branchops/float_ledger/internal/core/ports/services"
	"github.com/branchops/float_ledger/internal/platform/resilience"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"
)

// RelayConfig tunes one relay pass.
type RelayConfig struct {
	BatchSize   int
	MaxAttempts int
	Concurrency int
	Retry       resilience.Config
}

// outboxRelay drains pending ledger effects left behind by failed posts.
type outboxRelay struct {
	BaseService
	outbox  portsrepo.LedgerEffectReader
	posting portssvc.GLPostingSvc
	breaker *gobreaker.CircuitBreaker
	cfg     RelayConfig
}

// NewOutboxRelay creates the relay.
func NewOutboxRelay(outbox portsrepo.LedgerEffectReader, posting portssvc.GLPostingSvc, cfg RelayConfig, deps Dependencies) portssvc.OutboxRelaySvc {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &outboxRelay{
		BaseService: newBaseService(deps),
		outbox:      outbox,
		posting:     posting,
		breaker:     resilience.NewCircuitBreaker("outbox-relay"),
		cfg:         cfg,
	}
}

var _ portssvc.OutboxRelaySvc = (*outboxRelay)(nil)

// isPermanent reports failures that retrying inside one pass cannot fix.
func isPermanent(err error) bool {
	return errors.Is(err, apperrors.ErrMappingNotFound) ||
		errors.Is(err, apperrors.ErrPostingImbalance) ||
		errors.Is(err, apperrors.ErrValidation)
}

func (s *outboxRelay) RunOnce(ctx context.Context) (portssvc.RelayReport, error) {
	start := time.Now()
	defer func() { s.metrics().RecordDuration("relay_pass", time.Since(start)) }()

	effects, err := s.outbox.ListPendingEffects(ctx, s.cfg.BatchSize, s.cfg.MaxAttempts)
	if err != nil {
		s.LogError(ctx, err, "Failed to list pending ledger effects")
		return portssvc.RelayReport{}, err
	}

	var posted, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for _, effect := range effects {
		g.Go(func() error {
			inFlight := false
			err := resilience.RetryWithBackoff(gctx, s.cfg.Retry, func() error {
				_, err := s.breaker.Execute(func() (any, error) {
					_, err := s.posting.PostEffect(gctx, effect.EffectID)
					if errors.Is(err, apperrors.ErrEffectInFlight) {
						inFlight = true
						return nil, nil
					}
					if err != nil && isPermanent(err) {
						return nil, fmt.Errorf("%w: %w", resilience.ErrPermanent, err)
					}
					return nil, err
				})
				return err
			})
			if err != nil {
				failed.Add(1)
				s.LogWarn(gctx, err, "Ledger effect still pending",
					slog.String("grouping_id", effect.EffectID),
					slog.String("source_module", string(effect.SourceModule)),
					slog.String("transaction_id", effect.SourceTransactionID),
					slog.Int("attempts", effect.Attempts+1))
				// One stuck effect never stops the rest of the batch.
				return nil
			}
			if inFlight {
				s.LogDebug(gctx, "Ledger effect held by another poster, leaving it",
					slog.String("grouping_id", effect.EffectID))
				return nil
			}
			posted.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	report := portssvc.RelayReport{
		Picked: len(effects),
		Posted: int(posted.Load()),
		Failed: int(failed.Load()),
	}
	if remaining, err := s.outbox.CountPendingEffects(ctx, nil); err == nil {
		s.metrics().SetPendingEffects(remaining)
	}
	if report.Picked > 0 {
		s.LogInfo(ctx, "Outbox relay pass finished",
			slog.Int("picked", report.Picked),
			slog.Int("posted", report.Posted),
			slog.Int("failed", report.Failed))
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}
