package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EffectKind says whether a ledger effect posts a mapping or reverses prior postings.
type EffectKind string

const (
	EffectPost    EffectKind = "POST"
	EffectReverse EffectKind = "REVERSE"
)

// EffectStatus is the delivery state of a ledger effect.
type EffectStatus string

const (
	EffectPending   EffectStatus = "PENDING"
	EffectPosted    EffectStatus = "POSTED"
	EffectCancelled EffectStatus = "CANCELLED"
)

// LedgerEffect is a durable pending GL posting written in the same unit of
// work as the float mutation it accompanies. EffectID doubles as the grouping
// id of the journal entries it produces.
type LedgerEffect struct {
	EffectID            string          `json:"effectID"`
	Kind                EffectKind      `json:"kind"`
	SourceModule        ServiceType     `json:"sourceModule"`
	SourceTransactionID string          `json:"sourceTransactionID"`
	ServiceType         ServiceType     `json:"serviceType"`
	TransactionType     TransactionType `json:"transactionType"`
	BranchID            string          `json:"branchID"`
	FloatAccountID      string          `json:"floatAccountID"`
	Amount              decimal.Decimal `json:"amount"` // signed for edit deltas
	Fee                 decimal.Decimal `json:"fee"`
	Status              EffectStatus    `json:"status"`
	Attempts            int             `json:"attempts"`
	LastError           *string         `json:"lastError,omitempty"`
	CreatedBy           string          `json:"createdBy"`
	CreatedAt           time.Time       `json:"createdAt"`
	PostedAt            *time.Time      `json:"postedAt,omitempty"`
}

// PostingRequest is the input to a single GL batch posting.
type PostingRequest struct {
	GroupingID          string
	Mapping             MappingSet
	Amount              decimal.Decimal
	Fee                 decimal.Decimal
	BranchID            string
	SourceModule        ServiceType
	SourceTransactionID string
	Description         string
	Actor               string
}
