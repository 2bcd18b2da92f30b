package repositories

import (
	"context"
)

// TransactionManager defines methods for unit-of-work management
type TransactionManager interface {
	// WithinTransaction runs fn inside one database transaction. Repository calls
	// made with the context passed to fn join that transaction. When ctx already
	// carries a transaction, fn joins it instead of opening a new one.
	// The transaction commits when fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// AfterCommit schedules fn to run once the outermost transaction carried by
	// ctx has committed. fn receives a context without that transaction and is
	// dropped on rollback. Without an open transaction fn runs immediately.
	AfterCommit(ctx context.Context, fn func(ctx context.Context))
}
