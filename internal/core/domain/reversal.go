package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReversalStatus is the review state of a reversal request.
type ReversalStatus string

const (
	ReversalPending  ReversalStatus = "PENDING"
	ReversalApproved ReversalStatus = "APPROVED"
	ReversalRejected ReversalStatus = "REJECTED"
)

// ReversalRecord is a request to reverse a transaction, pending review.
type ReversalRecord struct {
	ReversalID    string         `json:"reversalID"`
	TransactionID string         `json:"transactionID"`
	SourceModule  ServiceType    `json:"sourceModule"`
	BranchID      string         `json:"branchID"`
	RequestedBy   string         `json:"requestedBy"`
	Reason        string         `json:"reason"`
	Status        ReversalStatus `json:"status"`
	ReviewedBy    *string        `json:"reviewedBy,omitempty"`
	ReviewNote    *string        `json:"reviewNote,omitempty"`
	RequestedAt   time.Time      `json:"requestedAt"`
	ReviewedAt    *time.Time     `json:"reviewedAt,omitempty"`
}

// ReversalCommand asks the reversal engine to compensate a transaction.
// Delete marks the row deleted instead of reversed.
type ReversalCommand struct {
	TransactionID string
	SourceModule  ServiceType
	Reason        string
	Actor         Actor
	Delete        bool
}

// ReversalResult describes the compensation applied for a reversal or delete.
type ReversalResult struct {
	Transaction           Transaction                `json:"transaction"`
	CompensatedDeltas     map[string]decimal.Decimal `json:"compensatedDeltas"`
	FloatEntries          []FloatTransactionEntry    `json:"floatEntries,omitempty"`
	FloatAccounts         []FloatAccount             `json:"floatAccounts,omitempty"`
	GroupingID            string                     `json:"groupingID"`
	Journal               []GLJournalEntry           `json:"journal,omitempty"`
	CancelledEffects      int                        `json:"cancelledEffects"`
	ReconciliationPending bool                       `json:"reconciliationPending"`
}
