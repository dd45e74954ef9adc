package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/social-service/internal/events"
	"github.com/SAP-F-2025/social-service/internal/realtime"
)

// changeNotifier publishes a domain event and a realtime change event for
// every mutation. Failures are logged and never surface to the caller.
type changeNotifier struct {
	events   events.EventPublisher
	realtime realtime.Publisher
	logger   *slog.Logger
}

func newChangeNotifier(publisher events.EventPublisher, rt realtime.Publisher, logger *slog.Logger) *changeNotifier {
	return &changeNotifier{events: publisher, realtime: rt, logger: logger}
}

func (n *changeNotifier) notify(ctx context.Context, eventType events.EventType, data map[string]interface{}, change *realtime.ChangeEvent) {
	if n == nil {
		return
	}
	// the request may be gone by the time a slow broker answers
	ctx = context.WithoutCancel(ctx)

	if n.events != nil && eventType != "" {
		if err := n.events.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
			n.logger.WarnContext(ctx, "Failed to publish domain event",
				"event_type", eventType,
				"error", err)
		}
	}
	if n.realtime != nil && change != nil {
		n.realtime.Publish(ctx, *change)
	}
}
