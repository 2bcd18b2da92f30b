package services

import (
	portsrepo "github.com/branchops/float_ledger/internal/core/ports/repositories"
	portssvc "github.com/branchops/float_ledger/internal/core/ports/services"
	"github.com/branchops/float_ledger/internal/platform/config"
	"github.com/branchops/float_ledger/internal/platform/resilience"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, deps Dependencies) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The resolver and float ledger are shared by everything that moves money.
	container.Mapping = NewMappingResolver(repos.GLRepo, repos.FloatAccountRepo, deps)
	container.FloatLedger = NewFloatLedger(repos.TxManager, repos.FloatAccountRepo, deps)
	container.Posting = NewGLPostingEngine(repos.TxManager, repos.GLRepo, repos.OutboxRepo, container.Mapping, deps)

	container.Reversal = NewReversalEngine(
		repos.TxManager,
		repos.TransactionStores,
		container.FloatLedger,
		container.Posting,
		repos.OutboxRepo,
		deps,
	)
	container.Dispatcher = NewTransactionDispatcher(
		repos.TxManager,
		repos.TransactionStores,
		container.FloatLedger,
		container.Mapping,
		container.Posting,
		container.Reversal,
		deps,
	)
	container.Reversals = NewReversalRequestService(repos.TxManager, repos.ReversalRepo, repos.TransactionStores, container.Reversal, deps)

	container.Float = NewFloatService(repos.TxManager, repos.FloatAccountRepo, container.FloatLedger, container.Posting, deps)
	container.FloatAccount = NewFloatAccountService(repos.TxManager, repos.FloatAccountRepo, container.FloatLedger, deps)
	container.GLConfig = NewGLConfigService(repos.GLRepo, repos.FloatAccountRepo, deps)
	container.GLStatistics = NewGLStatisticsService(repos.StatisticsRepo, repos.GLRepo, repos.FloatAccountRepo, repos.OutboxRepo, deps)

	relayCfg := RelayConfig{}
	if cfg != nil {
		relayCfg = RelayConfig{
			BatchSize:   cfg.RelayBatchSize,
			MaxAttempts: cfg.RelayMaxAttempts,
			Concurrency: cfg.RelayConcurrency,
			Retry: resilience.Config{
				MaxRetries:     cfg.RelayMaxRetries,
				InitialBackoff: cfg.RelayInitialBackoff,
			},
		}
	}
	container.Relay = NewOutboxRelay(repos.OutboxRepo, container.Posting, relayCfg, deps)

	return container
}
