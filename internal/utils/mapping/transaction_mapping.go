package mapping

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/branchops/float_ledger/internal/core/domain"
	"github.com/branchops/float_ledger/internal/models"
)

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// ToModelTransaction converts a domain Transaction to a module table row.
func ToModelTransaction(d domain.Transaction) (models.TransactionRecord, error) {
	metadata := []byte("{}")
	if len(d.Metadata) > 0 {
		raw, err := json.Marshal(d.Metadata)
		if err != nil {
			return models.TransactionRecord{}, fmt.Errorf("failed to encode metadata: %w", err)
		}
		metadata = raw
	}
	return models.TransactionRecord{
		TransactionID:   d.TransactionID,
		TransactionType: string(d.TransactionType),
		Amount:          d.Amount,
		Fee:             d.Fee,
		CustomerName:    d.CustomerName,
		CustomerPhone:   d.CustomerPhone,
		Reference:       d.Reference,
		FloatAccountID:  d.FloatAccountID,
		BranchID:        d.BranchID,
		Status:          string(d.Status),
		IdempotencyKey:  toNullString(d.IdempotencyKey),
		Metadata:        metadata,
		DeleteReason:    toNullString(d.DeleteReason),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainTransaction converts a module table row to a domain Transaction.
func ToDomainTransaction(module domain.ServiceType, m models.TransactionRecord) (domain.Transaction, error) {
	var metadata map[string]any
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &metadata); err != nil {
			return domain.Transaction{}, fmt.Errorf("failed to decode metadata of %s: %w", m.TransactionID, err)
		}
		if len(metadata) == 0 {
			metadata = nil
		}
	}
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		ServiceType:     module,
		TransactionType: domain.TransactionType(m.TransactionType),
		Amount:          m.Amount,
		Fee:             m.Fee,
		CustomerName:    m.CustomerName,
		CustomerPhone:   m.CustomerPhone,
		Reference:       m.Reference,
		FloatAccountID:  m.FloatAccountID,
		BranchID:        m.BranchID,
		Status:          domain.TransactionStatus(m.Status),
		IdempotencyKey:  fromNullString(m.IdempotencyKey),
		Metadata:        metadata,
		DeleteReason:    fromNullString(m.DeleteReason),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}, nil
}
