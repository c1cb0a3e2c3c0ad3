package app

import (
	"context"

	"github.com/cepetdeal/marketplace/kafka"
)

// EventRegistrar accepts handlers for consumed event types
type EventRegistrar interface {
	RegisterHandler(eventType string, handler kafka.EventHandler)
}

// RegisterEventHandlers subscribes the in-process reactions to marketplace events.
// Every listing or receipt change makes the cached dashboard stale.
func RegisterEventHandlers(r EventRegistrar, h *Handlers) {
	invalidate := func(ctx context.Context, _ kafka.Delivery) error {
		return h.Stats.Invalidate(ctx)
	}
	for _, eventType := range []string{
		kafka.EventTypeListingCreated,
		kafka.EventTypeListingStatusChanged,
		kafka.EventTypeListingDeleted,
		kafka.EventTypeReceiptCreated,
	} {
		r.RegisterHandler(eventType, invalidate)
	}
}
