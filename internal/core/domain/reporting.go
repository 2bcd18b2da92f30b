package domain

import (
	"github.com/shopspring/decimal"
)

// GLAccountBalance is the balance of one GL account derived from posted entries.
type GLAccountBalance struct {
	AccountID   string          `json:"accountID"`
	Code        string          `json:"code"`
	AccountName string          `json:"accountName"`
	AccountType GLAccountType   `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Balance     decimal.Decimal `json:"balance"` // signed by the account's normal side
}

// UnbalancedGrouping is a grouping id whose posted debits and credits differ.
type UnbalancedGrouping struct {
	GroupingID string          `json:"groupingID"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
}

// FloatReconciliation compares a float account's stored balance with the
// balance replayed from its entry log.
type FloatReconciliation struct {
	AccountID      string           `json:"accountID"`
	AccountType    FloatAccountType `json:"accountType"`
	StoredBalance  decimal.Decimal  `json:"storedBalance"`
	EntryBalance   decimal.Decimal  `json:"entryBalance"`
	Difference     decimal.Decimal  `json:"difference"`
	PendingEffects int              `json:"pendingEffects"`
}

// GLStatistics summarises ledger health for a branch (or institution-wide).
type GLStatistics struct {
	BranchID            string                `json:"branchID,omitempty"`
	TotalDebits         decimal.Decimal       `json:"totalDebits"`
	TotalCredits        decimal.Decimal       `json:"totalCredits"`
	IsBalanced          bool                  `json:"isBalanced"`
	Accounts            []GLAccountBalance    `json:"accounts"`
	UnbalancedGroupings []UnbalancedGrouping  `json:"unbalancedGroupings"`
	Floats              []FloatReconciliation `json:"floats"`
	PendingEffects      int                   `json:"pendingEffects"`
}
