package command

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/listing/domain"
	"github.com/cepetdeal/marketplace/kafka"
	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/logger"
)

// MinYear is the oldest model year accepted
const MinYear = 1950

// CreateListingCommand represents the command to create a listing
type CreateListingCommand struct {
	Principal    identity.Principal
	Title        string
	Description  string
	Brand        string
	Model        string
	Year         int
	Condition    string
	Mileage      int
	Price        int64
	Transmission string
	FuelType     string
	Color        string
	Location     string
	Images       []string
}

// CreateListingHandler handles create listing command
type CreateListingHandler struct {
	repo      domain.ListingRepository
	catalog   domain.CatalogResolver
	publisher kafka.EventPublisher
	now       func() time.Time
}

// NewCreateListingHandler creates a new create listing handler
func NewCreateListingHandler(repo domain.ListingRepository, catalog domain.CatalogResolver, publisher kafka.EventPublisher) *CreateListingHandler {
	return &CreateListingHandler{repo: repo, catalog: catalog, publisher: publisher, now: time.Now}
}

// WithClock replaces the time source used for slugs
func (h *CreateListingHandler) WithClock(now func() time.Time) *CreateListingHandler {
	h.now = now
	return h
}

// Handle executes the create listing command
func (h *CreateListingHandler) Handle(ctx context.Context, cmd CreateListingCommand) (*domain.Listing, error) {
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return nil, apperror.Validation("title", "title is required")
	}
	now := h.now()
	if err := validateYear(cmd.Year, now); err != nil {
		return nil, err
	}
	condition, err := domain.ParseCondition(cmd.Condition)
	if err != nil {
		return nil, err
	}
	if cmd.Price <= 0 {
		return nil, apperror.Validation("price", "price must be greater than 0")
	}
	if cmd.Mileage < 0 {
		return nil, apperror.Validation("mileage", "mileage cannot be negative")
	}
	images, err := validateImages(cmd.Images)
	if err != nil {
		return nil, err
	}

	brand, model, err := h.catalog.Resolve(ctx, cmd.Brand, cmd.Model)
	if err != nil {
		return nil, err
	}

	listing := &domain.Listing{
		Title:        title,
		Slug:         domain.Slugify(title, now),
		Description:  strings.TrimSpace(cmd.Description),
		BrandID:      brand.ID,
		ModelID:      model.ID,
		Year:         cmd.Year,
		Condition:    condition,
		Mileage:      cmd.Mileage,
		Price:        cmd.Price,
		Transmission: strings.TrimSpace(cmd.Transmission),
		FuelType:     strings.TrimSpace(cmd.FuelType),
		Color:        strings.TrimSpace(cmd.Color),
		Location:     strings.TrimSpace(cmd.Location),
		Images:       images,
		Status:       domain.InitialStatus(cmd.Principal.Role),
		OwnerID:      cmd.Principal.UserID,
	}
	listing.NormalizeMileage()

	if err := h.repo.Create(ctx, listing); err != nil {
		return nil, err
	}
	listing.Brand = brand
	listing.Model = model

	logger.Info(ctx).
		Uint("listing_id", listing.ID).
		Str("slug", listing.Slug).
		Str("status", string(listing.Status)).
		Uint("owner_id", listing.OwnerID).
		Msg("Listing created")

	publishListingEvent(ctx, h.publisher, kafka.EventTypeListingCreated, listing, cmd.Principal.UserID, "")
	return listing, nil
}

func validateYear(year int, now time.Time) error {
	if year < MinYear || year > now.Year()+1 {
		return apperror.Validation("year", "year is out of range")
	}
	return nil
}

func validateImages(images []string) ([]string, error) {
	out := make([]string, 0, len(images))
	for _, raw := range images {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, apperror.Validation("images", "images must be http(s) URLs")
		}
		out = append(out, raw)
	}
	if len(out) < domain.MinImages {
		return nil, apperror.Validation("images", "at least 3 images are required")
	}
	return out, nil
}
