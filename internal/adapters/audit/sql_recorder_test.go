package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/branchops/float_ledger/internal/adapters/audit"
	"github.com/branchops/float_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() domain.AuditEvent {
	return domain.AuditEvent{
		EventID:      "8a0c53f2-3a0e-4c8e-9a39-5e3f1c1f8b11",
		Type:         domain.EventTransactionCreated,
		ActorID:      "user-1",
		ActorRole:    domain.RoleCashier,
		BranchID:     "branch-1",
		SourceModule: domain.ServiceMomo,
		EntityID:     "txn-1",
		Details:      map[string]any{"amount": "500.00"},
		OccurredAt:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestSQLRecorder_Record(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ev := sampleEvent()
	mock.ExpectExec("INSERT INTO audit_events").
		WithArgs(ev.EventID, "transaction.created", "user-1", "cashier", "branch-1", "momo", "txn-1",
			[]byte(`{"amount":"500.00"}`), ev.OccurredAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = audit.NewSQLRecorder(db).Record(context.Background(), ev)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRecorder_EmptyDetails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ev := sampleEvent()
	ev.Details = nil
	mock.ExpectExec("INSERT INTO audit_events").
		WithArgs(ev.EventID, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), []byte("{}"), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, audit.NewSQLRecorder(db).Record(context.Background(), ev))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRecorder_PropagatesError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("connection reset")
	mock.ExpectExec("INSERT INTO audit_events").WillReturnError(boom)

	err = audit.NewSQLRecorder(db).Record(context.Background(), sampleEvent())

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
