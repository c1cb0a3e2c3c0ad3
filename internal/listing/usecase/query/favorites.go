package query

import (
	"context"

	"github.com/cepetdeal/marketplace/internal/listing/domain"
)

// ListFavoritesHandler returns the listings a user saved. Listings that have since
// left public view are dropped unless the user owns them.
type ListFavoritesHandler struct {
	favorites domain.FavoriteRepository
}

func NewListFavoritesHandler(favorites domain.FavoriteRepository) *ListFavoritesHandler {
	return &ListFavoritesHandler{favorites: favorites}
}

func (h *ListFavoritesHandler) Handle(ctx context.Context, userID uint) ([]domain.Listing, error) {
	listings, err := h.favorites.ListListings(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Status.IsPublic() || l.IsOwnedBy(userID) {
			out = append(out, l)
		}
	}
	return out, nil
}
