package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/branchops/float_ledger/internal/apperrors"
	"github.com/branchops/float_ledger/internal/core/domain"
)

// TransactionRecordStore is the per-module adapter over one transaction table.
type TransactionRecordStore interface {
	// Module returns the service module this store serves.
	Module() domain.ServiceType

	// Insert persists a new transaction row.
	Insert(ctx context.Context, txn domain.Transaction) error

	// Find retrieves a transaction by id.
	Find(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindForUpdate retrieves and locks a transaction row within the current unit of work.
	FindForUpdate(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindByIdempotencyKey retrieves the transaction created with the given key.
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Transaction, error)

	// Update stores the editable fields of a transaction.
	Update(ctx context.Context, txn domain.Transaction) error

	// UpdateStatus moves a transaction to a new status.
	UpdateStatus(ctx context.Context, transactionID string, status domain.TransactionStatus, deleteReason *string, userID string, now time.Time) error
}

// TransactionRecordStores indexes the per-module stores by service module.
type TransactionRecordStores map[domain.ServiceType]TransactionRecordStore

// For returns the store of a module.
func (s TransactionRecordStores) For(module domain.ServiceType) (TransactionRecordStore, error) {
	store, ok := s[module]
	if !ok {
		return nil, fmt.Errorf("%w: no transaction store for module %q", apperrors.ErrValidation, module)
	}
	return store, nil
}
