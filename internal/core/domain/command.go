package domain

import "fmt"

// Action is the operation a command performs on a transaction.
type Action string

const (
	ActionCreate   Action = "create"
	ActionReverse  Action = "reverse"
	ActionEdit     Action = "edit"
	ActionDelete   Action = "delete"
	ActionComplete Action = "complete"
	ActionDeliver  Action = "deliver"
	ActionDisburse Action = "disburse"
)

// Command is a fully typed request resolved at the boundary. Intent is set for
// ActionCreate, Changes for ActionEdit and Reason for reverse/delete.
type Command struct {
	Module        ServiceType
	Action        Action
	Actor         Actor
	TransactionID string
	Intent        *TransactionIntent
	Changes       *TransactionChanges
	Reason        string
}

// Validate checks that the command carries what its action needs.
func (c Command) Validate() error {
	switch c.Action {
	case ActionCreate:
		if c.Intent == nil {
			return fmt.Errorf("create command requires an intent")
		}
		return nil
	case ActionEdit:
		if c.Changes == nil || c.Changes.IsEmpty() {
			return fmt.Errorf("edit command requires at least one change")
		}
	case ActionReverse, ActionDelete:
		if c.Reason == "" {
			return fmt.Errorf("%s command requires a reason", c.Action)
		}
	case ActionComplete, ActionDeliver, ActionDisburse:
	default:
		return fmt.Errorf("unknown action %q", c.Action)
	}
	if c.TransactionID == "" {
		return fmt.Errorf("%s command requires a transaction id", c.Action)
	}
	return nil
}
