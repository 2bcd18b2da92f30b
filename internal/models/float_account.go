package models

import (
	"github.com/shopspring/decimal"
)

// FloatAccount is a row of float_accounts.
type FloatAccount struct {
	AccountID    string          `db:"account_id"`
	BranchID     string          `db:"branch_id"`
	AccountType  string          `db:"account_type"`
	Provider     string          `db:"provider"`
	Balance      decimal.Decimal `db:"balance"`
	MinThreshold decimal.Decimal `db:"min_threshold"`
	MaxThreshold decimal.Decimal `db:"max_threshold"`
	IsActive     bool            `db:"is_active"`
	AuditFields
}
