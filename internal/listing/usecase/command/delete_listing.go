package command

import (
	"context"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/listing/domain"
	"github.com/cepetdeal/marketplace/kafka"
	"github.com/cepetdeal/marketplace/pkg/logger"
)

// DeleteListingCommand represents the command to delete a listing
type DeleteListingCommand struct {
	Principal identity.Principal
	Slug      string
}

// DeleteListingHandler handles delete listing command
type DeleteListingHandler struct {
	repo      domain.ListingRepository
	publisher kafka.EventPublisher
}

// NewDeleteListingHandler creates a new delete listing handler
func NewDeleteListingHandler(repo domain.ListingRepository, publisher kafka.EventPublisher) *DeleteListingHandler {
	return &DeleteListingHandler{repo: repo, publisher: publisher}
}

// Handle executes the delete listing command. Admins may delete anything; owners
// only their PENDING listings, so indexed public pages stay up.
func (h *DeleteListingHandler) Handle(ctx context.Context, cmd DeleteListingCommand) error {
	listing, err := h.repo.FindBySlug(ctx, cmd.Slug)
	if err != nil {
		return err
	}

	if err := domain.CheckDelete(listing, cmd.Principal); err != nil {
		logger.Warn(ctx).
			Uint("listing_id", listing.ID).
			Str("status", string(listing.Status)).
			Uint("user_id", cmd.Principal.UserID).
			Msg("Listing delete refused")
		return err
	}

	if err := h.repo.Delete(ctx, listing.ID); err != nil {
		return err
	}

	logger.Info(ctx).
		Uint("listing_id", listing.ID).
		Str("slug", listing.Slug).
		Uint("actor_id", cmd.Principal.UserID).
		Msg("Listing deleted")

	publishListingEvent(ctx, h.publisher, kafka.EventTypeListingDeleted, listing, cmd.Principal.UserID, "")
	return nil
}
