package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/branchops/float_ledger/internal/apperrors"
	"github.com/branchops/float_ledger/internal/core/domain"
	portssvc "github.com/branchops/float_ledger/internal/core/ports/services"
	"github.com/branchops/float_ledger/internal/middleware"
	"github.com/branchops/float_ledger/internal/platform/observability"
	"github.com/google/uuid"
)

// Dependencies carries the collaborators every service shares.
// Any of them may be nil.
type Dependencies struct {
	Audit    portssvc.AuditRecorder
	Notifier portssvc.NotificationService
	Metrics  *observability.Metrics
	Clock    func() time.Time
}

// BaseService provides common functionality for all services
type BaseService struct {
	deps Dependencies
}

func newBaseService(deps Dependencies) BaseService {
	return BaseService{deps: deps}
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a recoverable failure with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Warn(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

func (s *BaseService) now() time.Time {
	if s.deps.Clock != nil {
		return s.deps.Clock().UTC()
	}
	return time.Now().UTC()
}

func (s *BaseService) metrics() *observability.Metrics {
	return s.deps.Metrics
}

// emit hands an event to the audit recorder and the notifier. Their failures
// are logged and never reach the caller.
func (s *BaseService) emit(ctx context.Context, event domain.AuditEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now()
	}
	if s.deps.Audit != nil {
		if err := s.deps.Audit.Record(ctx, event); err != nil {
			s.LogWarn(ctx, err, "Failed to record audit event",
				slog.String("event_type", string(event.Type)),
				slog.String("entity_id", event.EntityID))
		}
	}
	if s.deps.Notifier != nil {
		if err := s.deps.Notifier.Notify(ctx, event); err != nil {
			s.LogWarn(ctx, err, "Failed to send notification",
				slog.String("event_type", string(event.Type)),
				slog.String("entity_id", event.EntityID))
		}
	}
}

func newEvent(eventType domain.EventType, actor domain.Actor, branchID string, module domain.ServiceType, entityID string, details map[string]any) domain.AuditEvent {
	return domain.AuditEvent{
		Type:         eventType,
		ActorID:      actor.UserID,
		ActorRole:    actor.Role,
		BranchID:     branchID,
		SourceModule: module,
		EntityID:     entityID,
		Details:      details,
	}
}

// authorizeBranch rejects actors that may not act on the given branch.
func authorizeBranch(actor domain.Actor, branchID string) error {
	if actor.UserID == "" {
		return apperrors.ErrUnauthorized
	}
	if !actor.CanAccessBranch(branchID) {
		return fmt.Errorf("%w: actor %s may not act on branch %s", apperrors.ErrForbidden, actor.UserID, branchID)
	}
	return nil
}

// requireRole rejects actors without one of the given roles.
func requireRole(actor domain.Actor, roles ...domain.Role) error {
	if actor.UserID == "" {
		return apperrors.ErrUnauthorized
	}
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return fmt.Errorf("%w: role %s may not perform this operation", apperrors.ErrForbidden, actor.Role)
}

// branchScope narrows a requested branch filter to what the actor may see.
func branchScope(actor domain.Actor, requested *string) (*string, error) {
	if actor.IsPrivileged() {
		return requested, nil
	}
	if requested != nil && *requested != actor.BranchID {
		return nil, fmt.Errorf("%w: actor %s may not read branch %s", apperrors.ErrForbidden, actor.UserID, *requested)
	}
	own := actor.BranchID
	return &own, nil
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}
