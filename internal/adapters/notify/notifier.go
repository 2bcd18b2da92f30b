// Package notify forwards audit events to delivery channels.
package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/branchops/float_ledger/internal/core/domain"
	portssvc "github.com/branchops/float_ledger/internal/core/ports/services"
	utils "github.com/branchops/float_ledger/internal/utils"
)

// LogNotifier writes events to a structured logger. Threshold breaches and
// posting failures are logged at warn level.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier over logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, event domain.AuditEvent) error {
	level := slog.LevelInfo
	if event.Type == domain.EventFloatThreshold || event.Type == domain.EventLedgerPostingFailed {
		level = slog.LevelWarn
	}
	n.logger.LogAttrs(ctx, level, "Event",
		slog.String("event_id", event.EventID),
		slog.String("event_type", string(event.Type)),
		slog.String("actor_id", event.ActorID),
		slog.String("branch_id", event.BranchID),
		slog.String("source_module", string(event.SourceModule)),
		slog.String("entity_id", event.EntityID))
	return nil
}

// PosthogNotifier captures events in PostHog, keyed by the acting user.
type PosthogNotifier struct {
	client *utils.PosthogClientWrapper
}

// NewPosthogNotifier creates a notifier over an initialised (or no-op) client.
func NewPosthogNotifier(client *utils.PosthogClientWrapper) *PosthogNotifier {
	return &PosthogNotifier{client: client}
}

func (n *PosthogNotifier) Notify(_ context.Context, event domain.AuditEvent) error {
	props := map[string]any{
		"event_id":      event.EventID,
		"branch_id":     event.BranchID,
		"source_module": string(event.SourceModule),
		"entity_id":     event.EntityID,
		"actor_role":    string(event.ActorRole),
	}
	for k, v := range event.Details {
		props[k] = v
	}
	return n.client.Enqueue(event.ActorID, string(event.Type), props)
}

// Fanout delivers every event to each notifier and joins their errors.
type Fanout []portssvc.NotificationService

func (f Fanout) Notify(ctx context.Context, event domain.AuditEvent) error {
	var errs []error
	for _, n := range f {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ portssvc.NotificationService = (*LogNotifier)(nil)
	_ portssvc.NotificationService = (*PosthogNotifier)(nil)
	_ portssvc.NotificationService = Fanout(nil)
)
