package accounting

import (
	"fmt"

	"github.com/branchops/float_ledger/internal/apperrors"
	"github.com/branchops/float_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Leg is one computed journal line before it is persisted.
type Leg struct {
	GLAccountID string
	Side        domain.EntrySide
	Amount      decimal.Decimal // always positive
}

// ComputeLegs turns mapping legs into journal lines. Each leg takes the amount
// its basis selects; zero legs are dropped and negative legs (edit deltas)
// flip to the opposite side.
func ComputeLegs(mapping domain.MappingSet, amount, fee decimal.Decimal) []Leg {
	legs := make([]Leg, 0, len(mapping.Legs))
	for _, m := range mapping.Legs {
		value := domain.RoundMoney(m.Basis.AmountFor(amount, fee))
		if value.IsZero() {
			continue
		}
		side := m.Side
		if value.IsNegative() {
			side = side.Opposite()
			value = value.Neg()
		}
		legs = append(legs, Leg{GLAccountID: m.GLAccountID, Side: side, Amount: value})
	}
	return legs
}

// ValidateBalance checks that a batch has at least one debit, at least one
// credit and that debits equal credits exactly.
func ValidateBalance(entries []domain.GLJournalEntry) error {
	var hasDebit, hasCredit bool
	for _, e := range entries {
		if e.Debit.IsPositive() == e.Credit.IsPositive() {
			return fmt.Errorf("%w: entry on account %s must carry exactly one positive side", apperrors.ErrPostingImbalance, e.GLAccountID)
		}
		if e.Debit.IsPositive() {
			hasDebit = true
		} else {
			hasCredit = true
		}
	}
	if !hasDebit || !hasCredit {
		return fmt.Errorf("%w: batch needs at least one debit and one credit", apperrors.ErrPostingImbalance)
	}
	debits, credits := domain.SumSides(entries)
	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits sum is %s and credits sum is %s", apperrors.ErrPostingImbalance, debits.String(), credits.String())
	}
	return nil
}

// SignedBalance returns an account's balance on its normal side.
// DEBIT-normal: ASSET, EXPENSE. CREDIT-normal: LIABILITY, EQUITY, REVENUE.
func SignedBalance(accountType domain.GLAccountType, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debit.Sub(credit), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// SwapEntry returns the mirror of a posted entry with debit and credit exchanged.
func SwapEntry(e domain.GLJournalEntry) domain.GLJournalEntry {
	e.Debit, e.Credit = e.Credit, e.Debit
	return e
}
