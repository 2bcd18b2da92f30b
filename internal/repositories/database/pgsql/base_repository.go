package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/branchops/float_ledger/internal/apperrors"
	portsrepo "github.com/branchops/float_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// querier is the subset of pgx shared by the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type txKey struct{}

// txState is the unit of work carried in a context.
type txState struct {
	tx    pgx.Tx
	hooks []func(ctx context.Context)
}

func stateFromCtx(ctx context.Context) (*txState, bool) {
	st, ok := ctx.Value(txKey{}).(*txState)
	return st, ok
}

func txFromCtx(ctx context.Context) (pgx.Tx, bool) {
	st, ok := stateFromCtx(ctx)
	if !ok {
		return nil, false
	}
	return st.tx, true
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// conn returns the unit of work carried by ctx, or the pool when there is none.
func (r *BaseRepository) conn(ctx context.Context) querier {
	if tx, ok := txFromCtx(ctx); ok {
		return tx
	}
	return r.Pool
}

// requireTx returns the open transaction for statements that take row locks.
func (r *BaseRepository) requireTx(ctx context.Context, op string) (pgx.Tx, error) {
	tx, ok := txFromCtx(ctx)
	if !ok {
		return nil, apperrors.NewAppError(500, op+" requires an open transaction", nil)
	}
	return tx, nil
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func notFoundOr(err error, notFound error, message string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return apperrors.NewAppError(500, message, err)
}

// PgxTransactionManager opens units of work on the pool.
type PgxTransactionManager struct {
	BaseRepository
}

func newPgxTransactionManager(pool *pgxpool.Pool) portsrepo.TransactionManager {
	return &PgxTransactionManager{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionManager = (*PgxTransactionManager)(nil)

// WithinTransaction runs fn in one database transaction, joining the caller's when present.
func (m *PgxTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFromCtx(ctx); ok {
		return fn(ctx)
	}

	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = m.Rollback(ctx, tx)
			panic(p)
		}
		if err != nil {
			if rbErr := m.Rollback(ctx, tx); rbErr != nil {
				err = fmt.Errorf("%w (rollback: %v)", err, rbErr)
			}
		}
	}()

	st := &txState{tx: tx}
	if err = fn(context.WithValue(ctx, txKey{}, st)); err != nil {
		return err
	}
	if err = m.Commit(ctx, tx); err != nil {
		return err
	}
	for _, hook := range st.hooks {
		hook(ctx)
	}
	return nil
}

// AfterCommit queues fn behind the outermost transaction, or runs it now.
func (m *PgxTransactionManager) AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	st, ok := stateFromCtx(ctx)
	if !ok {
		fn(ctx)
		return
	}
	st.hooks = append(st.hooks, fn)
}
