package domain

// GLAccountType defines the fundamental accounting type of a GL account.
type GLAccountType string

const (
	Asset     GLAccountType = "ASSET"
	Liability GLAccountType = "LIABILITY"
	Equity    GLAccountType = "EQUITY"
	Revenue   GLAccountType = "REVENUE"
	Expense   GLAccountType = "EXPENSE"
)

// Valid reports whether t is one of the five known account types.
func (t GLAccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// GLAccount is a general ledger account. Its balance is never stored; it is
// always derived from journal entries.
type GLAccount struct {
	AccountID   string        `json:"accountID"`
	Code        string        `json:"code"`
	Name        string        `json:"name"`
	AccountType GLAccountType `json:"accountType"`
	BranchID    *string       `json:"branchID,omitempty"` // nil = institution-wide
	IsActive    bool          `json:"isActive"`
	AuditFields
}
