package mapping

import (
	"github.com/branchops/float_ledger/internal/core/domain"
	"github.com/branchops/float_ledger/internal/models"
)

// ToModelFloatAccount converts a domain FloatAccount to a model FloatAccount
func ToModelFloatAccount(d domain.FloatAccount) models.FloatAccount {
	return models.FloatAccount{
		AccountID:    d.AccountID,
		BranchID:     d.BranchID,
		AccountType:  string(d.AccountType),
		Provider:     d.Provider,
		Balance:      d.Balance,
		MinThreshold: d.MinThreshold,
		MaxThreshold: d.MaxThreshold,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFloatAccount converts a model FloatAccount to a domain FloatAccount
func ToDomainFloatAccount(m models.FloatAccount) domain.FloatAccount {
	return domain.FloatAccount{
		AccountID:    m.AccountID,
		BranchID:     m.BranchID,
		AccountType:  domain.FloatAccountType(m.AccountType),
		Provider:     m.Provider,
		Balance:      m.Balance,
		MinThreshold: m.MinThreshold,
		MaxThreshold: m.MaxThreshold,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
