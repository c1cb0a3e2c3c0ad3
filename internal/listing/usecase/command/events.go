package command

import (
	"context"

	"github.com/cepetdeal/marketplace/internal/listing/domain"
	"github.com/cepetdeal/marketplace/kafka"
	"github.com/cepetdeal/marketplace/pkg/logger"
)

// publishListingEvent emits a listing event after a committed write. Failures are
// logged and never surface to the caller.
func publishListingEvent(ctx context.Context, pub kafka.EventPublisher, eventType string, l *domain.Listing, actorID uint, previous domain.Status) {
	event := kafka.ListingEvent{
		EventType: eventType,
		ListingID: l.ID,
		Slug:      l.Slug,
		OwnerID:   l.OwnerID,
		ActorID:   actorID,
		Status:    string(l.Status),
		Price:     l.Price,
	}
	if previous != "" {
		event.PreviousStatus = string(previous)
	}

	if err := pub.PublishListingEvent(ctx, event); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("event_type", eventType).
			Uint("listing_id", l.ID).
			Msg("Failed to publish listing event")
	}
}
