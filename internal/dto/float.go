package dto

import (
	"time"

	"github.com/branchops/float_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RechargeFloatRequest moves value from a source float account into a target one.
type RechargeFloatRequest struct {
	TargetAccountID string          `json:"targetAccountID" binding:"required,uuid"`
	SourceAccountID string          `json:"sourceAccountID" binding:"required,uuid,nefield=TargetAccountID"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description" binding:"max=255"`
}

// ExchangeDirection says which way an exchange moves value.
type ExchangeDirection string

const (
	// CashToFloat draws on the till and credits the float account.
	CashToFloat ExchangeDirection = "cash_to_float"
	// FloatToCash draws on the float account and credits the till.
	FloatToCash ExchangeDirection = "float_to_cash"
)

// ExchangeFloatRequest converts between a branch's cash till and one of its float accounts.
type ExchangeFloatRequest struct {
	BranchID       string            `json:"branchID"`
	FloatAccountID string            `json:"floatAccountID" binding:"required,uuid"`
	Amount         decimal.Decimal   `json:"amount"`
	Direction      ExchangeDirection `json:"direction" binding:"omitempty,oneof=cash_to_float float_to_cash"`
}

// CreateFloatAccountRequest defines the data needed to open a float account.
type CreateFloatAccountRequest struct {
	BranchID       string                  `json:"branchID" binding:"required"`
	AccountType    domain.FloatAccountType `json:"accountType" binding:"required,oneof=cash_in_till momo_float agency_banking_float ezwich_float power_float jumia_float"`
	Provider       string                  `json:"provider" binding:"max=100"`
	OpeningBalance decimal.Decimal         `json:"openingBalance"`
	MinThreshold   decimal.Decimal         `json:"minThreshold"`
	MaxThreshold   decimal.Decimal         `json:"maxThreshold"`
}

// ListFloatEntriesParams defines query parameters for listing float entries.
type ListFloatEntriesParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// FloatEntryResponse defines the data returned for one float entry.
type FloatEntryResponse struct {
	EntryID       string                `json:"entryID"`
	EntryType     domain.FloatEntryType `json:"entryType"`
	Amount        decimal.Decimal       `json:"amount"`
	BalanceBefore decimal.Decimal       `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal       `json:"balanceAfter"`
	SourceModule  domain.ServiceType    `json:"sourceModule"`
	ReferenceID   string                `json:"referenceID"`
	Description   string                `json:"description"`
	CreatedBy     string                `json:"createdBy"`
	CreatedAt     time.Time             `json:"createdAt"`
}

// ListFloatEntriesResponse wraps a page of float entries.
type ListFloatEntriesResponse struct {
	Entries   []FloatEntryResponse `json:"entries"`
	NextToken *string              `json:"nextToken,omitempty"`
}

// ToFloatEntryResponses converts domain entries to response DTOs.
func ToFloatEntryResponses(entries []domain.FloatTransactionEntry) []FloatEntryResponse {
	res := make([]FloatEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = FloatEntryResponse{
			EntryID:       e.EntryID,
			EntryType:     e.EntryType,
			Amount:        e.Amount,
			BalanceBefore: e.BalanceBefore,
			BalanceAfter:  e.BalanceAfter,
			SourceModule:  e.SourceModule,
			ReferenceID:   e.ReferenceID,
			Description:   e.Description,
			CreatedBy:     e.CreatedBy,
			CreatedAt:     e.CreatedAt,
		}
	}
	return res
}

// RechargeFloatResponse returns both balances after a recharge.
type RechargeFloatResponse struct {
	ReferenceID           string          `json:"referenceID"`
	NewTargetBalance      decimal.Decimal `json:"newTargetBalance"`
	NewSourceBalance      decimal.Decimal `json:"newSourceBalance"`
	ReconciliationPending bool            `json:"reconciliationPending"`
}

// ExchangeFloatResponse returns the till and float account after an exchange.
type ExchangeFloatResponse struct {
	ReferenceID           string              `json:"referenceID"`
	CashTill              domain.FloatAccount `json:"cashTill"`
	FloatAccount          domain.FloatAccount `json:"floatAccount"`
	ReconciliationPending bool                `json:"reconciliationPending"`
}
