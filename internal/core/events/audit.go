package events

import (
	"context"
	"log/slog"
)

// AuditedEventTypes are logged by the audit subscriber.
var AuditedEventTypes = []string{
	EventTypeRoleCreated,
	EventTypeRolePermissionsSynced,
	EventTypeRoleAssigned,
	EventTypeUserCreated,
	EventTypeCaseTeamChanged,
}

// RegisterAuditLog subscribes a handler that writes every access change to the log.
func RegisterAuditLog(bus *EventBus, logger *slog.Logger) {
	handler := func(ctx context.Context, event Event) error {
		logger.InfoContext(ctx, "audit",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"occurred_at", event.OccurredAt(),
			"data", event.Payload())
		return nil
	}
	for _, t := range AuditedEventTypes {
		bus.Subscribe(t, handler)
	}
}
