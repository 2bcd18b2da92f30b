package idempotency_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/branchops/float_ledger/internal/adapters/idempotency"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_CompleteStoresResponse(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := idempotency.NewRedisStore(db)

	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	rec := idempotency.Record{
		Fingerprint: "abc",
		StatusCode:  201,
		ContentType: "application/json",
		Body:        []byte(`{"success":true}`),
		CreatedAt:   created,
	}
	expected := rec
	expected.State = idempotency.StateCompleted
	expected.ExpiresAt = created.Add(time.Hour)
	data, err := json.Marshal(expected)
	require.NoError(t, err)
	mock.ExpectSet("idempotency:key-1", data, time.Hour).SetVal("OK")

	err = store.Complete(context.Background(), "key-1", rec, time.Hour)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Release(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := idempotency.NewRedisStore(db)
	mock.ExpectDel("idempotency:key-1").SetVal(1)

	assert.NoError(t, store.Release(context.Background(), "key-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_ReleaseUnavailable(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := idempotency.NewRedisStore(db)
	mock.ExpectDel("idempotency:key-1").SetErr(errors.New("dial tcp: connection refused"))

	err := store.Release(context.Background(), "key-1")

	assert.ErrorIs(t, err, idempotency.ErrStoreUnavailable)
}
