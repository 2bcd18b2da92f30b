package models

// GLMapping is a row of gl_mappings.
type GLMapping struct {
	MappingID       string  `db:"mapping_id"`
	ServiceType     string  `db:"service_type"`
	TransactionType string  `db:"transaction_type"`
	BranchID        *string `db:"branch_id"`        // Nullable
	FloatAccountID  *string `db:"float_account_id"` // Nullable
	GLAccountID     string  `db:"gl_account_id"`
	Side            string  `db:"side"`
	Basis           string  `db:"basis"`
	IsActive        bool    `db:"is_active"`
	AuditFields
}
