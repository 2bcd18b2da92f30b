package pgsql

import (
	portsrepo "github.com/branchops/float_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:         newPgxTransactionManager(dbPool),
		FloatAccountRepo:  newPgxFloatAccountRepository(dbPool),
		GLRepo:            newPgxGLRepository(dbPool),
		TransactionStores: newPgxTransactionRecordStores(dbPool),
		OutboxRepo:        newPgxOutboxRepository(dbPool),
		ReversalRepo:      newPgxReversalRepository(dbPool),
		StatisticsRepo:    newPgxGLStatisticsRepository(dbPool),
	}
}
