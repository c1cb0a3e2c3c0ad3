package query

import (
	"context"
	"strings"

	catalogdomain "github.com/cepetdeal/marketplace/internal/catalog/domain"
	"github.com/cepetdeal/marketplace/internal/listing/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ListingPage is a page of listings
type ListingPage struct {
	Listings []domain.Listing `json:"listings"`
	Total    int64            `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

// BrowseQuery filters the public catalogue
type BrowseQuery struct {
	Brand     string
	Model     string
	Condition string
	Status    string
	MinPrice  int64
	MaxPrice  int64
	MinYear   int
	MaxYear   int
	Query     string
	Sort      string
	Limit     int
	Offset    int
}

// SearchListingsHandler serves browse, mine and the admin queue
type SearchListingsHandler struct {
	repo    domain.ListingRepository
	catalog catalogdomain.CatalogRepository
}

func NewSearchListingsHandler(repo domain.ListingRepository, catalog catalogdomain.CatalogRepository) *SearchListingsHandler {
	return &SearchListingsHandler{repo: repo, catalog: catalog}
}

// Browse returns public listings. Only ACTIVE (default) or SOLD may be requested.
func (h *SearchListingsHandler) Browse(ctx context.Context, q BrowseQuery) (*ListingPage, error) {
	filter, err := h.baseFilter(q.Sort, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}

	filter.Statuses = []domain.Status{domain.StatusActive}
	if q.Status != "" {
		st, err := domain.ParseStatus(q.Status)
		if err != nil || !st.IsPublic() {
			return nil, apperror.Validation("status", "status must be ACTIVE or SOLD")
		}
		filter.Statuses = []domain.Status{st}
	}

	if q.Condition != "" {
		c, err := domain.ParseCondition(q.Condition)
		if err != nil {
			return nil, err
		}
		filter.Condition = c
	}
	if q.MinPrice < 0 || q.MaxPrice < 0 || (q.MaxPrice > 0 && q.MinPrice > q.MaxPrice) {
		return nil, apperror.Validation("minPrice", "invalid price range")
	}
	if q.MaxYear > 0 && q.MinYear > q.MaxYear {
		return nil, apperror.Validation("minYear", "invalid year range")
	}
	filter.MinPrice, filter.MaxPrice = q.MinPrice, q.MaxPrice
	filter.MinYear, filter.MaxYear = q.MinYear, q.MaxYear
	filter.Query = strings.TrimSpace(q.Query)

	if q.Brand != "" {
		brand, err := h.catalog.FindBrandByName(ctx, strings.TrimSpace(q.Brand))
		if apperror.KindOf(err) == apperror.KindNotFound {
			return emptyPage(filter), nil
		}
		if err != nil {
			return nil, err
		}
		filter.BrandID = brand.ID

		if q.Model != "" {
			model, err := h.catalog.FindModelByName(ctx, brand.ID, strings.TrimSpace(q.Model))
			if apperror.KindOf(err) == apperror.KindNotFound {
				return emptyPage(filter), nil
			}
			if err != nil {
				return nil, err
			}
			filter.ModelID = model.ID
		}
	}

	return h.search(ctx, filter)
}

// Mine returns every listing owned by ownerID regardless of status
func (h *SearchListingsHandler) Mine(ctx context.Context, ownerID uint, limit, offset int) (*ListingPage, error) {
	filter, err := h.baseFilter("", limit, offset)
	if err != nil {
		return nil, err
	}
	filter.OwnerID = ownerID
	return h.search(ctx, filter)
}

// AdminQueue lists listings of one status for moderation, PENDING by default
func (h *SearchListingsHandler) AdminQueue(ctx context.Context, status string, limit, offset int) (*ListingPage, error) {
	filter, err := h.baseFilter("", limit, offset)
	if err != nil {
		return nil, err
	}
	st := domain.StatusPending
	if status != "" {
		if st, err = domain.ParseStatus(status); err != nil {
			return nil, err
		}
	}
	filter.Statuses = []domain.Status{st}
	return h.search(ctx, filter)
}

func (h *SearchListingsHandler) baseFilter(sort string, limit, offset int) (domain.ListingFilter, error) {
	order, err := domain.ParseSortOrder(sort)
	if err != nil {
		return domain.ListingFilter{}, err
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return domain.ListingFilter{
		Sort:   order,
		Limit:  min(limit, maxLimit),
		Offset: max(offset, 0),
	}, nil
}

func (h *SearchListingsHandler) search(ctx context.Context, filter domain.ListingFilter) (*ListingPage, error) {
	listings, total, err := h.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	if listings == nil {
		listings = []domain.Listing{}
	}
	return &ListingPage{Listings: listings, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func emptyPage(filter domain.ListingFilter) *ListingPage {
	return &ListingPage{Listings: []domain.Listing{}, Limit: filter.Limit, Offset: filter.Offset}
}
