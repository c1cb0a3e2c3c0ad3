package command

import (
	"context"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/listing/domain"
	"github.com/cepetdeal/marketplace/kafka"
	"github.com/cepetdeal/marketplace/pkg/logger"
)

// UpdateStatusCommand applies a lifecycle action to a listing
type UpdateStatusCommand struct {
	Principal identity.Principal
	ListingID uint
	Action    string
}

// UpdateStatusHandler handles listing status actions
type UpdateStatusHandler struct {
	repo      domain.ListingRepository
	publisher kafka.EventPublisher
}

// NewUpdateStatusHandler creates a new update status handler
func NewUpdateStatusHandler(repo domain.ListingRepository, publisher kafka.EventPublisher) *UpdateStatusHandler {
	return &UpdateStatusHandler{repo: repo, publisher: publisher}
}

// Handle executes the status action
func (h *UpdateStatusHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (*domain.Listing, error) {
	action, err := domain.ParseAction(cmd.Action)
	if err != nil {
		return nil, err
	}

	listing, err := h.repo.FindByID(ctx, cmd.ListingID)
	if err != nil {
		return nil, err
	}
	if !domain.CanView(listing, cmd.Principal, true) {
		return nil, domain.ErrListingNotFound
	}

	current := listing.Status
	next, err := domain.Transition(current, action, cmd.Principal.Role, listing.IsOwnedBy(cmd.Principal.UserID))
	if err != nil {
		return nil, err
	}
	if next == current {
		return listing, nil
	}

	changed, err := h.repo.TransitionStatus(ctx, listing.ID, current, next)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, domain.ErrStatusChanged
	}
	listing.Status = next

	logger.Info(ctx).
		Uint("listing_id", listing.ID).
		Str("action", string(action)).
		Str("from", string(current)).
		Str("to", string(next)).
		Uint("actor_id", cmd.Principal.UserID).
		Msg("Listing status changed")

	publishListingEvent(ctx, h.publisher, kafka.EventTypeListingStatusChanged, listing, cmd.Principal.UserID, current)
	return listing, nil
}
