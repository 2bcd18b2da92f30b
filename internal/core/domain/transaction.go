package domain

import (
	"github.com/shopspring/decimal"
)

// TransactionStatus is the state of a business transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusDisbursed TransactionStatus = "disbursed"
	StatusDelivered TransactionStatus = "delivered"
	StatusSettled   TransactionStatus = "settled"
	StatusReversed  TransactionStatus = "reversed"
	StatusDeleted   TransactionStatus = "deleted"
)

// IsClosed reports whether no further money movement may happen on the transaction.
func (s TransactionStatus) IsClosed() bool {
	return s == StatusReversed || s == StatusDeleted
}

// Editable reports whether amount, fee and customer fields may still change.
func (s TransactionStatus) Editable() bool {
	return s == StatusPending || s == StatusCompleted
}

// Transaction is the common shape of every module's transaction row.
// Module-specific fields live in Metadata.
type Transaction struct {
	TransactionID   string            `json:"transactionID"`
	ServiceType     ServiceType       `json:"serviceType"`
	TransactionType TransactionType   `json:"transactionType"`
	Amount          decimal.Decimal   `json:"amount"`
	Fee             decimal.Decimal   `json:"fee"`
	CustomerName    string            `json:"customerName"`
	CustomerPhone   string            `json:"customerPhone,omitempty"`
	Reference       string            `json:"reference,omitempty"`
	FloatAccountID  string            `json:"floatAccountID"`
	BranchID        string            `json:"branchID"`
	Status          TransactionStatus `json:"status"`
	IdempotencyKey  *string           `json:"idempotencyKey,omitempty"`
	Metadata        map[string]any    `json:"metadata,omitempty"`
	DeleteReason    *string           `json:"deleteReason,omitempty"`
	AuditFields
}

// EffectsApplied reports whether the transaction's float and GL effects have
// been applied in its current status.
func (t Transaction) EffectsApplied() bool {
	switch t.ServiceType {
	case ServicePower:
		return t.Status == StatusCompleted
	case ServiceJumia:
		return t.Status == StatusDelivered || t.Status == StatusSettled
	default:
		return t.Status == StatusCompleted || t.Status == StatusDisbursed
	}
}

// FloatDelta returns the float change the transaction's current amount and fee imply.
func (t Transaction) FloatDelta() (decimal.Decimal, bool) {
	dir, ok := DirectionFor(t.ServiceType, t.TransactionType)
	if !ok {
		return decimal.Zero, false
	}
	return dir.FloatDelta(t.Amount, t.Fee), true
}

// TransactionIntent is a request to record a new business transaction.
type TransactionIntent struct {
	ServiceType     ServiceType     `validate:"required"`
	TransactionType TransactionType `validate:"required"`
	Amount          decimal.Decimal
	Fee             decimal.Decimal
	CustomerName    string `validate:"required,max=255"`
	CustomerPhone   string `validate:"omitempty,max=32"`
	Reference       string `validate:"omitempty,max=128"`
	FloatAccountID  string `validate:"omitempty,uuid"`
	BranchID        string `validate:"required"`
	IdempotencyKey  string `validate:"omitempty,max=128"`
	Metadata        map[string]any
}

// TransactionChanges holds the editable fields of an open transaction.
// Nil fields are left untouched.
type TransactionChanges struct {
	Amount        *decimal.Decimal
	Fee           *decimal.Decimal
	CustomerName  *string
	CustomerPhone *string
	Reference     *string
	Metadata      map[string]any
}

// IsEmpty reports whether no field would change.
func (c TransactionChanges) IsEmpty() bool {
	return c.Amount == nil && c.Fee == nil && c.CustomerName == nil &&
		c.CustomerPhone == nil && c.Reference == nil && c.Metadata == nil
}

// TransactionResult is returned by every accepted dispatcher operation so
// callers can show updated balances without another read.
type TransactionResult struct {
	Transaction  Transaction             `json:"transaction"`
	FloatAccount *FloatAccount           `json:"floatAccount,omitempty"`
	FloatEntries []FloatTransactionEntry `json:"floatEntries,omitempty"`
	GroupingID   string                  `json:"groupingID,omitempty"`
	Journal      []GLJournalEntry        `json:"journal,omitempty"`
	// ReconciliationPending is set when a ledger effect was committed but not yet posted.
	ReconciliationPending bool `json:"reconciliationPending"`
	// Replayed is set when an idempotency key matched an existing transaction.
	Replayed bool `json:"replayed,omitempty"`
}
