package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// TransactionRecord is a row of one of the per-module transaction tables.
// The tables share this column layout; service specific fields live in metadata.
type TransactionRecord struct {
	TransactionID   string          `db:"transaction_id"`
	TransactionType string          `db:"transaction_type"`
	Amount          decimal.Decimal `db:"amount"`
	Fee             decimal.Decimal `db:"fee"`
	CustomerName    string          `db:"customer_name"`
	CustomerPhone   string          `db:"customer_phone"`
	Reference       string          `db:"reference"`
	FloatAccountID  string          `db:"float_account_id"`
	BranchID        string          `db:"branch_id"`
	Status          string          `db:"status"`
	IdempotencyKey  sql.NullString  `db:"idempotency_key"`
	Metadata        []byte          `db:"metadata"` // JSONB
	DeleteReason    sql.NullString  `db:"delete_reason"`
	AuditFields
}
