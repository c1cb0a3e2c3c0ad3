package query

import (
	"context"
	"strings"

	"github.com/cepetdeal/marketplace/internal/listing/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
)

const (
	MinCompare = 2
	MaxCompare = 4
)

// CompareHandler loads listings side by side
type CompareHandler struct {
	repo domain.ListingRepository
}

func NewCompareHandler(repo domain.ListingRepository) *CompareHandler {
	return &CompareHandler{repo: repo}
}

// Handle returns the public listings named by slugs, in the order requested
func (h *CompareHandler) Handle(ctx context.Context, slugs []string) ([]domain.Listing, error) {
	seen := make(map[string]bool, len(slugs))
	unique := make([]string, 0, len(slugs))
	for _, s := range slugs {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		unique = append(unique, s)
	}
	if len(unique) < MinCompare || len(unique) > MaxCompare {
		return nil, apperror.Validation("slugs", "compare between 2 and 4 listings")
	}

	found, err := h.repo.FindBySlugs(ctx, unique)
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]domain.Listing, len(found))
	for _, l := range found {
		bySlug[l.Slug] = l
	}

	out := make([]domain.Listing, 0, len(unique))
	for _, s := range unique {
		l, ok := bySlug[s]
		if !ok || !l.Status.IsPublic() {
			return nil, apperror.NotFound(domain.ErrListingNotFound.Code, "Listing "+s+" not found")
		}
		out = append(out, l)
	}
	return out, nil
}
