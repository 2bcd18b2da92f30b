package dto

import (
	"github.com/branchops/float_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a business transaction.
// The service module comes from the route.
type CreateTransactionRequest struct {
	TransactionType domain.TransactionType `json:"transactionType" binding:"required"`
	Amount          decimal.Decimal        `json:"amount"`
	Fee             decimal.Decimal        `json:"fee"`
	CustomerName    string                 `json:"customerName" binding:"required,max=255"`
	CustomerPhone   string                 `json:"customerPhone" binding:"omitempty,max=32"`
	Reference       string                 `json:"reference" binding:"omitempty,max=128"`
	FloatAccountID  string                 `json:"floatAccountID" binding:"omitempty,uuid"`
	BranchID        string                 `json:"branchID"` // defaults to the actor's branch
	Metadata        map[string]any         `json:"metadata"`
}

// ToIntent converts the request into a domain intent for a module.
func (r CreateTransactionRequest) ToIntent(module domain.ServiceType, branchID, idempotencyKey string) domain.TransactionIntent {
	return domain.TransactionIntent{
		ServiceType:     module,
		TransactionType: r.TransactionType,
		Amount:          r.Amount,
		Fee:             r.Fee,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		Reference:       r.Reference,
		FloatAccountID:  r.FloatAccountID,
		BranchID:        branchID,
		IdempotencyKey:  idempotencyKey,
		Metadata:        r.Metadata,
	}
}

// EditTransactionRequest defines the editable fields of an open transaction.
// Use pointers to distinguish between zero-value updates and fields not provided.
type EditTransactionRequest struct {
	Amount        *decimal.Decimal `json:"amount"`
	Fee           *decimal.Decimal `json:"fee"`
	CustomerName  *string          `json:"customerName" binding:"omitempty,max=255"`
	CustomerPhone *string          `json:"customerPhone" binding:"omitempty,max=32"`
	Reference     *string          `json:"reference" binding:"omitempty,max=128"`
	Metadata      map[string]any   `json:"metadata"`
}

// ToChanges converts the request into domain changes.
func (r EditTransactionRequest) ToChanges() domain.TransactionChanges {
	return domain.TransactionChanges{
		Amount:        r.Amount,
		Fee:           r.Fee,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Reference:     r.Reference,
		Metadata:      r.Metadata,
	}
}

// ReasonRequest carries the mandatory reason for reverse and delete.
type ReasonRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}
