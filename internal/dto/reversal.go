package dto

import (
	"github.com/branchops/float_ledger/internal/core/domain"
)

// CreateReversalRequest asks for a transaction to be reversed after review.
type CreateReversalRequest struct {
	TransactionID string             `json:"transactionID" binding:"required,uuid"`
	SourceModule  domain.ServiceType `json:"sourceModule" binding:"required"`
	Reason        string             `json:"reason" binding:"required,min=3,max=500"`
}

// ReviewReversalRequest carries an optional reviewer note.
type ReviewReversalRequest struct {
	Note *string `json:"note" binding:"omitempty,max=500"`
}

// ListReversalsParams defines query parameters for listing reversal requests.
type ListReversalsParams struct {
	BranchID *string               `form:"branch_id"`
	Status   *domain.ReversalStatus `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Limit    int                   `form:"limit,default=20" binding:"min=1,max=100"`
	Offset   int                   `form:"offset,default=0" binding:"min=0"`
}
