package pgsql

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStopQuery = errors.New("stop")

// recordingTx captures the statement sent through an open transaction.
type recordingTx struct {
	pgx.Tx
	queries []string
	args    [][]any
}

func (t *recordingTx) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	t.queries = append(t.queries, sql)
	t.args = append(t.args, args)
	return nil, errStopQuery
}

func TestLockFloatAccounts_LocksInAscendingOrder(t *testing.T) {
	tx := &recordingTx{}
	ctx := context.WithValue(context.Background(), txKey{}, &txState{tx: tx})
	repo := &PgxFloatAccountRepository{}

	ids := []string{
		"f3b1c7a2-0000-4000-8000-000000000003",
		"0a9e5d11-0000-4000-8000-000000000001",
		"7c2d4e88-0000-4000-8000-000000000002",
	}
	_, err := repo.LockFloatAccounts(ctx, ids)

	require.ErrorIs(t, err, errStopQuery)
	require.Len(t, tx.queries, 1)
	assert.Contains(t, tx.queries[0], "ORDER BY account_id")
	assert.Contains(t, tx.queries[0], "FOR UPDATE")
	assert.Equal(t, []any{[]string{
		"0a9e5d11-0000-4000-8000-000000000001",
		"7c2d4e88-0000-4000-8000-000000000002",
		"f3b1c7a2-0000-4000-8000-000000000003",
	}}, tx.args[0])
	// The caller's slice is left as given.
	assert.Equal(t, "f3b1c7a2-0000-4000-8000-000000000003", ids[0])
}

func TestLockFloatAccounts_RequiresTransaction(t *testing.T) {
	repo := &PgxFloatAccountRepository{}

	_, err := repo.LockFloatAccounts(context.Background(), []string{"0a9e5d11-0000-4000-8000-000000000001"})

	assert.ErrorContains(t, err, "requires an open transaction")
}

func TestLockFloatAccounts_EmptyIsNoop(t *testing.T) {
	tx := &recordingTx{}
	ctx := context.WithValue(context.Background(), txKey{}, &txState{tx: tx})

	locked, err := (&PgxFloatAccountRepository{}).LockFloatAccounts(ctx, nil)

	require.NoError(t, err)
	assert.Empty(t, locked)
	assert.Empty(t, tx.queries)
}
