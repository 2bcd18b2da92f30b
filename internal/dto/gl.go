package dto

import (
	"github.com/branchops/float_ledger/internal/core/domain"
)

// CreateGLAccountRequest defines the data needed to create a GL account.
type CreateGLAccountRequest struct {
	Code        string               `json:"code" binding:"required,max=32"`
	Name        string               `json:"name" binding:"required,max=255"`
	AccountType domain.GLAccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	BranchID    *string              `json:"branchID"`
}

// CreateGLMappingRequest defines one mapping leg.
type CreateGLMappingRequest struct {
	ServiceType     domain.ServiceType     `json:"serviceType" binding:"required"`
	TransactionType domain.TransactionType `json:"transactionType" binding:"required"`
	BranchID        *string                `json:"branchID"`
	FloatAccountID  *string                `json:"floatAccountID" binding:"omitempty,uuid"`
	GLAccountID     string                 `json:"glAccountID" binding:"required,uuid"`
	Side            domain.EntrySide       `json:"side" binding:"required,oneof=DEBIT CREDIT"`
	Basis           domain.MappingBasis    `json:"basis" binding:"omitempty,oneof=PRINCIPAL FEE TOTAL"`
}
