package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places every amount is rounded to.
const MoneyScale = 2

// RoundMoney normalises an amount to MoneyScale using banker's rounding.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(MoneyScale)
}

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // UserID Reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"` // UserID Reference
}

// NewAuditFields stamps creation and update fields with the same actor and time.
func NewAuditFields(userID string, now time.Time) AuditFields {
	return AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}

// Role is the back-office role of an authenticated user.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleFinance    Role = "finance"
	RoleManager    Role = "manager"
	RoleOperations Role = "operations"
	RoleCashier    Role = "cashier"
)

// Actor is the authenticated user on whose behalf an operation runs.
// It is always supplied by the boundary layer; the core never synthesizes one.
type Actor struct {
	UserID   string `json:"userID"`
	Role     Role   `json:"role"`
	BranchID string `json:"branchID"`
}

// IsPrivileged reports whether the actor may operate across branches.
func (a Actor) IsPrivileged() bool {
	return a.Role == RoleAdmin || a.Role == RoleFinance
}

// CanAccessBranch reports whether the actor may act on records of branchID.
func (a Actor) CanAccessBranch(branchID string) bool {
	return a.IsPrivileged() || a.BranchID == branchID
}
