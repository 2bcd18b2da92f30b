package domain

import "time"

// EventType names a state transition reported to audit and notification sinks.
type EventType string

const (
	EventTransactionCreated   EventType = "transaction.created"
	EventTransactionEdited    EventType = "transaction.edited"
	EventTransactionReversed  EventType = "transaction.reversed"
	EventTransactionDeleted   EventType = "transaction.deleted"
	EventTransactionCompleted EventType = "transaction.completed"
	EventTransactionDelivered EventType = "transaction.delivered"
	EventTransactionSettled   EventType = "transaction.settled"
	EventTransactionDisbursed EventType = "transaction.disbursed"
	EventFloatRecharged       EventType = "float.recharged"
	EventFloatExchanged       EventType = "float.exchanged"
	EventFloatThreshold       EventType = "float.threshold"
	EventReversalRequested    EventType = "reversal.requested"
	EventReversalApproved     EventType = "reversal.approved"
	EventReversalRejected     EventType = "reversal.rejected"
	EventLedgerPostingFailed  EventType = "ledger.posting_failed"
)

// AuditEvent is the structured record emitted after each state transition.
type AuditEvent struct {
	EventID      string         `json:"eventID"`
	Type         EventType      `json:"type"`
	ActorID      string         `json:"actorID"`
	ActorRole    Role           `json:"actorRole"`
	BranchID     string         `json:"branchID"`
	SourceModule ServiceType    `json:"sourceModule,omitempty"`
	EntityID     string         `json:"entityID"`
	Details      map[string]any `json:"details,omitempty"`
	OccurredAt   time.Time      `json:"occurredAt"`
}
