package services

import (
	"context"

	"github.com/branchops/float_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MappingResolverSvc resolves GL legs and float accounts for a transaction type.
type MappingResolverSvc interface {
	// Resolve returns the active mapping legs for a (service, transaction type)
	// pair in a branch, falling back to default rules. Legs bound to another
	// float account are dropped. It fails with apperrors.ErrMappingNotFound when
	// no debit and credit pair can be assembled.
	Resolve(ctx context.Context, serviceType domain.ServiceType, txnType domain.TransactionType, branchID string, floatAccountID string) (*domain.MappingSet, error)

	// ResolveFloatAccount returns the explicit account when one is given, otherwise
	// the branch's active float account for the service. An explicit account must
	// be of the service's float account type.
	ResolveFloatAccount(ctx context.Context, serviceType domain.ServiceType, branchID string, explicitID string) (*domain.FloatAccount, error)
}

// FloatLedgerSvc is the only writer of float balances.
type FloatLedgerSvc interface {
	// Apply moves one account's balance and appends the matching entry.
	Apply(ctx context.Context, mutation domain.FloatMutation) (*domain.FloatTransactionEntry, *domain.FloatAccount, error)

	// Transfer moves an amount between two accounts in one unit of work.
	Transfer(ctx context.Context, transfer domain.FloatTransfer) (*domain.TransferResult, error)

	// NetEffect sums the deltas already applied for a source reference, per account.
	NetEffect(ctx context.Context, sourceModule domain.ServiceType, referenceID string) (map[string]decimal.Decimal, error)
}

// GLPostingSvc turns mappings into balanced journal batches.
type GLPostingSvc interface {
	// Post builds, verifies and persists one balanced batch.
	Post(ctx context.Context, req domain.PostingRequest) ([]domain.GLJournalEntry, error)

	// EnqueueEffect records a pending ledger effect in the caller's unit of work.
	EnqueueEffect(ctx context.Context, effect domain.LedgerEffect) error

	// PostEffect posts a pending ledger effect in its own unit of work. Posting an
	// effect that is no longer pending is a no-op. An effect another poster holds
	// locked fails with apperrors.ErrEffectInFlight and stays pending.
	PostEffect(ctx context.Context, effectID string) ([]domain.GLJournalEntry, error)

	// BuildReversal returns the swapped counterpart of every posted entry of a source transaction.
	BuildReversal(ctx context.Context, groupingID string, sourceModule domain.ServiceType, sourceTransactionID string, actorID string) ([]domain.GLJournalEntry, error)
}

// TransactionDispatcherSvc is the public entry point for business transactions.
type TransactionDispatcherSvc interface {
	// Dispatch executes a typed command against its module.
	Dispatch(ctx context.Context, cmd domain.Command) (*domain.TransactionResult, error)

	// GetTransaction retrieves a transaction visible to the actor.
	GetTransaction(ctx context.Context, module domain.ServiceType, transactionID string, actor domain.Actor) (*domain.Transaction, error)
}

// ReversalEngineSvc compensates the applied effects of a transaction.
type ReversalEngineSvc interface {
	// Execute reverses or deletes a transaction. When ctx carries an open unit
	// of work the compensation joins it.
	Execute(ctx context.Context, cmd domain.ReversalCommand) (*domain.ReversalResult, error)
}

// OutboxRelaySvc drains pending ledger effects.
type OutboxRelaySvc interface {
	// RunOnce posts one batch of pending effects and reports what happened.
	RunOnce(ctx context.Context) (RelayReport, error)
}

// RelayReport summarises one relay pass.
type RelayReport struct {
	Picked int
	Posted int
	Failed int
}
