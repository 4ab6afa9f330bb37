package push

import (
	"context"

	"go.uber.org/zap"

	"github.com/supplyoffice/backend/internal/domain/shared"
)

// EventForwarder relays domain events to connected SSE clients so the
// frontend can refresh views without polling. Subscribed as a wildcard
// handler on the event bus.
type EventForwarder struct {
	hub    *Hub
	logger *zap.Logger
}

// NewEventForwarder creates a forwarder over the hub
func NewEventForwarder(hub *Hub, logger *zap.Logger) *EventForwarder {
	return &EventForwarder{hub: hub, logger: logger}
}

// Handle pushes the event to every connected client
func (f *EventForwarder) Handle(ctx context.Context, event shared.DomainEvent) error {
	err := f.hub.Broadcast(ctx, event.EventType(), event)
	if err != nil {
		f.logger.Warn("failed to forward domain event to push clients",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
	}
	return err
}

// EventTypes returns an empty slice: the forwarder receives all events
func (f *EventForwarder) EventTypes() []string {
	return nil
}

var _ shared.EventHandler = (*EventForwarder)(nil)
