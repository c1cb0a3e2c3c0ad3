package command

import (
	"context"
	"strings"
	"time"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/listing/domain"
	"github.com/cepetdeal/marketplace/kafka"
	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/logger"
)

// UpdateListingCommand edits a listing. Nil fields are left unchanged; status is
// never changed here.
type UpdateListingCommand struct {
	Principal    identity.Principal
	Slug         string
	Title        *string
	Description  *string
	Brand        *string
	Model        *string
	Year         *int
	Condition    *string
	Mileage      *int
	Price        *int64
	Transmission *string
	FuelType     *string
	Color        *string
	Location     *string
	Images       []string
}

// UpdateListingHandler handles listing edits
type UpdateListingHandler struct {
	repo      domain.ListingRepository
	catalog   domain.CatalogResolver
	publisher kafka.EventPublisher
	now       func() time.Time
}

func NewUpdateListingHandler(repo domain.ListingRepository, catalog domain.CatalogResolver, publisher kafka.EventPublisher) *UpdateListingHandler {
	return &UpdateListingHandler{repo: repo, catalog: catalog, publisher: publisher, now: time.Now}
}

// WithClock replaces the time source used for the model year bound
func (h *UpdateListingHandler) WithClock(now func() time.Time) *UpdateListingHandler {
	h.now = now
	return h
}

func (h *UpdateListingHandler) Handle(ctx context.Context, cmd UpdateListingCommand) (*domain.Listing, error) {
	listing, err := h.repo.FindBySlug(ctx, cmd.Slug)
	if err != nil {
		return nil, err
	}
	if !domain.CanView(listing, cmd.Principal, true) {
		return nil, domain.ErrListingNotFound
	}
	if err := domain.CheckEdit(listing, cmd.Principal); err != nil {
		return nil, err
	}

	if cmd.Title != nil {
		title := strings.TrimSpace(*cmd.Title)
		if title == "" {
			return nil, apperror.Validation("title", "title cannot be empty")
		}
		listing.Title = title
	}
	if cmd.Description != nil {
		listing.Description = strings.TrimSpace(*cmd.Description)
	}
	if cmd.Brand != nil || cmd.Model != nil {
		if cmd.Brand == nil || cmd.Model == nil {
			return nil, apperror.Validation("model", "brand and model must be changed together")
		}
		brand, model, err := h.catalog.Resolve(ctx, *cmd.Brand, *cmd.Model)
		if err != nil {
			return nil, err
		}
		listing.BrandID, listing.Brand = brand.ID, brand
		listing.ModelID, listing.Model = model.ID, model
	}
	if cmd.Year != nil {
		if err := validateYear(*cmd.Year, h.now()); err != nil {
			return nil, err
		}
		listing.Year = *cmd.Year
	}
	if cmd.Condition != nil {
		condition, err := domain.ParseCondition(*cmd.Condition)
		if err != nil {
			return nil, err
		}
		listing.Condition = condition
	}
	if cmd.Mileage != nil {
		if *cmd.Mileage < 0 {
			return nil, apperror.Validation("mileage", "mileage cannot be negative")
		}
		listing.Mileage = *cmd.Mileage
	}
	if cmd.Price != nil {
		if *cmd.Price <= 0 {
			return nil, apperror.Validation("price", "price must be greater than 0")
		}
		listing.Price = *cmd.Price
	}
	if cmd.Transmission != nil {
		listing.Transmission = strings.TrimSpace(*cmd.Transmission)
	}
	if cmd.FuelType != nil {
		listing.FuelType = strings.TrimSpace(*cmd.FuelType)
	}
	if cmd.Color != nil {
		listing.Color = strings.TrimSpace(*cmd.Color)
	}
	if cmd.Location != nil {
		listing.Location = strings.TrimSpace(*cmd.Location)
	}
	if cmd.Images != nil {
		images, err := validateImages(cmd.Images)
		if err != nil {
			return nil, err
		}
		listing.Images = images
	}
	listing.NormalizeMileage()

	if err := h.repo.Update(ctx, listing); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("listing_id", listing.ID).
		Str("slug", listing.Slug).
		Uint("editor_id", cmd.Principal.UserID).
		Int64("price", listing.Price).
		Msg("Listing updated")

	publishListingEvent(ctx, h.publisher, kafka.EventTypeListingUpdated, listing, cmd.Principal.UserID, "")
	return listing, nil
}
