package idempotency_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/branchops/float_ledger/internal/adapters/idempotency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoltStore(t *testing.T) *idempotency.BoltStore {
	t.Helper()
	store, err := idempotency.NewBoltStore(filepath.Join(t.TempDir(), "idempotency.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBoltStore_ReserveOnce(t *testing.T) {
	store := newBoltStore(t)
	ctx := context.Background()

	existing, reserved, err := store.Reserve(ctx, "key-1", "fp-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, reserved)
	assert.Nil(t, existing)

	existing, reserved, err = store.Reserve(ctx, "key-1", "fp-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, reserved)
	require.NotNil(t, existing)
	assert.Equal(t, idempotency.StateInProgress, existing.State)
	assert.Equal(t, "fp-1", existing.Fingerprint)
}

func TestBoltStore_CompleteThenReplay(t *testing.T) {
	store := newBoltStore(t)
	ctx := context.Background()

	_, reserved, err := store.Reserve(ctx, "key-2", "fp-2", time.Minute)
	require.NoError(t, err)
	require.True(t, reserved)

	err = store.Complete(ctx, "key-2", idempotency.Record{
		Fingerprint: "fp-2",
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"success":true}`),
	}, time.Minute)
	require.NoError(t, err)

	existing, reserved, err := store.Reserve(ctx, "key-2", "fp-2", time.Minute)
	require.NoError(t, err)
	assert.False(t, reserved)
	require.NotNil(t, existing)
	assert.Equal(t, idempotency.StateCompleted, existing.State)
	assert.Equal(t, 201, existing.StatusCode)
	assert.JSONEq(t, `{"success":true}`, string(existing.Body))
}

func TestBoltStore_ReleaseAllowsRetry(t *testing.T) {
	store := newBoltStore(t)
	ctx := context.Background()

	_, _, err := store.Reserve(ctx, "key-3", "fp-3", time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "key-3"))

	_, reserved, err := store.Reserve(ctx, "key-3", "fp-3", time.Minute)
	require.NoError(t, err)
	assert.True(t, reserved)
}

func TestBoltStore_ExpiredKeyIsReclaimed(t *testing.T) {
	store := newBoltStore(t)
	ctx := context.Background()

	_, _, err := store.Reserve(ctx, "key-4", "fp-4", time.Nanosecond)
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	_, reserved, err := store.Reserve(ctx, "key-4", "fp-4", time.Minute)
	require.NoError(t, err)
	assert.True(t, reserved)

	removed, err := store.Purge()
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
