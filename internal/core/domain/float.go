package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FloatAccountType identifies what kind of pre-funded balance an account holds.
type FloatAccountType string

const (
	FloatCashInTill    FloatAccountType = "cash_in_till"
	FloatMomo          FloatAccountType = "momo_float"
	FloatAgencyBanking FloatAccountType = "agency_banking_float"
	FloatEZwich        FloatAccountType = "ezwich_float"
	FloatPower         FloatAccountType = "power_float"
	FloatJumia         FloatAccountType = "jumia_float"
)

// Valid reports whether t is a known float account type.
func (t FloatAccountType) Valid() bool {
	switch t {
	case FloatCashInTill, FloatMomo, FloatAgencyBanking, FloatEZwich, FloatPower, FloatJumia:
		return true
	}
	return false
}

// FloatAccount is a branch-held balance for one service or provider.
// Balance is only ever changed by the float ledger.
type FloatAccount struct {
	AccountID    string           `json:"accountID"`
	BranchID     string           `json:"branchID"`
	AccountType  FloatAccountType `json:"accountType"`
	Provider     string           `json:"provider"`
	Balance      decimal.Decimal  `json:"balance"`
	MinThreshold decimal.Decimal  `json:"minThreshold"`
	MaxThreshold decimal.Decimal  `json:"maxThreshold"`
	IsActive     bool             `json:"isActive"`
	AuditFields
}

// BelowMin reports whether the balance has dropped under the configured minimum.
func (a FloatAccount) BelowMin() bool {
	return a.MinThreshold.IsPositive() && a.Balance.LessThan(a.MinThreshold)
}

// AboveMax reports whether the balance exceeds the configured maximum.
func (a FloatAccount) AboveMax() bool {
	return a.MaxThreshold.IsPositive() && a.Balance.GreaterThan(a.MaxThreshold)
}

// FloatEntryType classifies a float balance mutation.
type FloatEntryType string

const (
	EntryRecharge    FloatEntryType = "recharge"
	EntryTransferIn  FloatEntryType = "transfer_in"
	EntryTransferOut FloatEntryType = "transfer_out"
	EntryExchangeIn  FloatEntryType = "exchange_in"
	EntryExchangeOut FloatEntryType = "exchange_out"
	EntryTransaction FloatEntryType = "transaction"
	EntryAdjustment  FloatEntryType = "adjustment"
	EntryReversal    FloatEntryType = "reversal"
)

// AllowsNegative reports whether a mutation of this type may leave a negative balance.
func (t FloatEntryType) AllowsNegative() bool {
	return t == EntryAdjustment
}

// FloatTransactionEntry is the immutable record of one float balance mutation.
type FloatTransactionEntry struct {
	EntryID       string          `json:"entryID"`
	AccountID     string          `json:"accountID"`
	EntryType     FloatEntryType  `json:"entryType"`
	Amount        decimal.Decimal `json:"amount"` // signed delta
	BalanceBefore decimal.Decimal `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	SourceModule  ServiceType     `json:"sourceModule"`
	ReferenceID   string          `json:"referenceID"`
	Description   string          `json:"description"`
	CreatedBy     string          `json:"createdBy"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// FloatMutation is a request to move one float account's balance by Delta.
type FloatMutation struct {
	AccountID    string
	Delta        decimal.Decimal
	EntryType    FloatEntryType
	Actor        Actor
	Description  string
	SourceModule ServiceType
	ReferenceID  string
}

// FloatTransfer moves Amount from one float account to another.
type FloatTransfer struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	OutType       FloatEntryType
	InType        FloatEntryType
	Actor         Actor
	Description   string
	SourceModule  ServiceType
	ReferenceID   string
}

// TransferResult carries both legs of a completed transfer.
type TransferResult struct {
	ReferenceID string                `json:"referenceID"`
	From        FloatAccount          `json:"from"`
	To          FloatAccount          `json:"to"`
	OutEntry    FloatTransactionEntry `json:"outEntry"`
	InEntry     FloatTransactionEntry `json:"inEntry"`
	// ReconciliationPending is set when the GL posting for the transfer did not complete.
	ReconciliationPending bool `json:"reconciliationPending"`
}
