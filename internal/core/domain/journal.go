package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntrySide indicates whether a journal line or mapping leg is a Debit or a Credit.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// Opposite returns the other side of the entry.
func (s EntrySide) Opposite() EntrySide {
	if s == Debit {
		return Credit
	}
	return Debit
}

// JournalEntryStatus indicates the state of a journal entry.
type JournalEntryStatus string

const (
	EntryPending JournalEntryStatus = "PENDING"
	EntryPosted  JournalEntryStatus = "POSTED"
)

// GLJournalEntry is one line of a balanced journal batch. Exactly one of
// Debit and Credit is non-zero. Entries are immutable once posted.
type GLJournalEntry struct {
	EntryID             string             `json:"entryID"`
	GroupingID          string             `json:"groupingID"`
	GLAccountID         string             `json:"glAccountID"`
	Debit               decimal.Decimal    `json:"debit"`
	Credit              decimal.Decimal    `json:"credit"`
	BranchID            string             `json:"branchID"`
	SourceModule        ServiceType        `json:"sourceModule"`
	SourceTransactionID string             `json:"sourceTransactionID"`
	Description         string             `json:"description"`
	Status              JournalEntryStatus `json:"status"`
	CreatedAt           time.Time          `json:"createdAt"`
	CreatedBy           string             `json:"createdBy"`
}

// Side returns the side carrying the entry's amount.
func (e GLJournalEntry) Side() EntrySide {
	if e.Debit.IsPositive() {
		return Debit
	}
	return Credit
}

// Amount returns the non-zero amount of the entry.
func (e GLJournalEntry) Amount() decimal.Decimal {
	if e.Debit.IsPositive() {
		return e.Debit
	}
	return e.Credit
}

// SumSides totals debits and credits of a batch.
func SumSides(entries []GLJournalEntry) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, e := range entries {
		debits = debits.Add(e.Debit)
		credits = credits.Add(e.Credit)
	}
	return debits, credits
}

// MappingBasis selects which part of a transaction a mapping leg carries.
type MappingBasis string

const (
	BasisPrincipal MappingBasis = "PRINCIPAL"
	BasisFee       MappingBasis = "FEE"
	BasisTotal     MappingBasis = "TOTAL"
)

// Valid reports whether b is a known basis.
func (b MappingBasis) Valid() bool {
	switch b {
	case BasisPrincipal, BasisFee, BasisTotal:
		return true
	}
	return false
}

// AmountFor picks the amount the basis applies to.
func (b MappingBasis) AmountFor(amount, fee decimal.Decimal) decimal.Decimal {
	switch b {
	case BasisFee:
		return fee
	case BasisTotal:
		return amount.Add(fee)
	default:
		return amount
	}
}

// GLMapping translates a (service, transaction type) pair into one GL leg.
type GLMapping struct {
	MappingID       string          `json:"mappingID"`
	ServiceType     ServiceType     `json:"serviceType"`
	TransactionType TransactionType `json:"transactionType"`
	BranchID        *string         `json:"branchID,omitempty"`       // nil = default rule
	FloatAccountID  *string         `json:"floatAccountID,omitempty"` // nil = any float account
	GLAccountID     string          `json:"glAccountID"`
	Side            EntrySide       `json:"side"`
	Basis           MappingBasis    `json:"basis"`
	IsActive        bool            `json:"isActive"`
	AuditFields
}

// MappingSet is the resolved set of legs for one posting.
type MappingSet struct {
	ServiceType     ServiceType     `json:"serviceType"`
	TransactionType TransactionType `json:"transactionType"`
	BranchID        string          `json:"branchID"`
	BranchScoped    bool            `json:"branchScoped"` // false when default rules were used
	Legs            []GLMapping     `json:"legs"`
}

// HasBothSides reports whether the set has at least one debit and one credit leg.
func (m MappingSet) HasBothSides() bool {
	var debit, credit bool
	for _, leg := range m.Legs {
		switch leg.Side {
		case Debit:
			debit = true
		case Credit:
			credit = true
		}
	}
	return debit && credit
}
