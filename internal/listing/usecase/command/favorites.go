package command

import (
	"context"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/listing/domain"
)

// FavoriteCommand saves or unsaves a listing for the principal
type FavoriteCommand struct {
	Principal identity.Principal
	Slug      string
}

type FavoriteHandler struct {
	listings  domain.ListingRepository
	favorites domain.FavoriteRepository
}

func NewFavoriteHandler(listings domain.ListingRepository, favorites domain.FavoriteRepository) *FavoriteHandler {
	return &FavoriteHandler{listings: listings, favorites: favorites}
}

func (h *FavoriteHandler) resolve(ctx context.Context, cmd FavoriteCommand) (*domain.Listing, error) {
	listing, err := h.listings.FindBySlug(ctx, cmd.Slug)
	if err != nil {
		return nil, err
	}
	if !domain.CanView(listing, cmd.Principal, true) {
		return nil, domain.ErrListingNotFound
	}
	return listing, nil
}

// Add saves the listing; saving twice is not an error
func (h *FavoriteHandler) Add(ctx context.Context, cmd FavoriteCommand) error {
	listing, err := h.resolve(ctx, cmd)
	if err != nil {
		return err
	}
	return h.favorites.Add(ctx, cmd.Principal.UserID, listing.ID)
}

func (h *FavoriteHandler) Remove(ctx context.Context, cmd FavoriteCommand) error {
	listing, err := h.listings.FindBySlug(ctx, cmd.Slug)
	if err != nil {
		return err
	}
	return h.favorites.Remove(ctx, cmd.Principal.UserID, listing.ID)
}
