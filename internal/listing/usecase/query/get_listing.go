package query

import (
	"context"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/listing/domain"
	"github.com/cepetdeal/marketplace/pkg/logger"
	"github.com/cepetdeal/marketplace/pkg/metrics"
)

// GetListingQuery represents the query to read a listing by slug
type GetListingQuery struct {
	Slug          string
	Principal     identity.Principal
	Authenticated bool
}

// GetListingHandler handles get listing query
type GetListingHandler struct {
	repo    domain.ListingRepository
	metrics *metrics.DomainMetrics
}

// NewGetListingHandler creates a new get listing handler
func NewGetListingHandler(repo domain.ListingRepository, m *metrics.DomainMetrics) *GetListingHandler {
	return &GetListingHandler{repo: repo, metrics: m}
}

// Handle returns the listing and counts the view. Listings the caller may not see
// are reported as missing.
func (h *GetListingHandler) Handle(ctx context.Context, q GetListingQuery) (*domain.Listing, error) {
	listing, err := h.repo.FindBySlug(ctx, q.Slug)
	if err != nil {
		return nil, err
	}
	if !domain.CanView(listing, q.Principal, q.Authenticated) {
		return nil, domain.ErrListingNotFound
	}

	if err := h.repo.IncrementViews(ctx, listing.ID); err != nil {
		logger.Warn(ctx).Err(err).Uint("listing_id", listing.ID).Msg("Failed to count listing view")
	} else {
		listing.Views++
		h.metrics.ListingViews.Inc()
	}
	return listing, nil
}
