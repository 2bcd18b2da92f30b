package mapping

import (
	"github.com/branchops/float_ledger/internal/core/domain"
	"github.com/branchops/float_ledger/internal/models"
)

// ToModelGLMapping converts a domain GLMapping to a model GLMapping
func ToModelGLMapping(d domain.GLMapping) models.GLMapping {
	return models.GLMapping{
		MappingID:       d.MappingID,
		ServiceType:     string(d.ServiceType),
		TransactionType: string(d.TransactionType),
		BranchID:        d.BranchID,
		FloatAccountID:  d.FloatAccountID,
		GLAccountID:     d.GLAccountID,
		Side:            string(d.Side),
		Basis:           string(d.Basis),
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainGLMapping converts a model GLMapping to a domain GLMapping.
// Rows stored before the basis column existed default to TOTAL.
func ToDomainGLMapping(m models.GLMapping) domain.GLMapping {
	basis := domain.MappingBasis(m.Basis)
	if !basis.Valid() {
		basis = domain.BasisTotal
	}
	return domain.GLMapping{
		MappingID:       m.MappingID,
		ServiceType:     domain.ServiceType(m.ServiceType),
		TransactionType: domain.TransactionType(m.TransactionType),
		BranchID:        m.BranchID,
		FloatAccountID:  m.FloatAccountID,
		GLAccountID:     m.GLAccountID,
		Side:            domain.EntrySide(m.Side),
		Basis:           basis,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
