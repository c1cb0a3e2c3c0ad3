package command

import (
	"context"
	"strings"

	"github.com/cepetdeal/marketplace/internal/catalog/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/cache"
	"github.com/cepetdeal/marketplace/pkg/logger"
)

// BrandsCacheKey is the cache entry holding the public brand list
const BrandsCacheKey = "catalog:brands"

// CreateBrandCommand represents the command to add a brand
type CreateBrandCommand struct {
	Name string
}

// CreateBrandHandler handles create brand command
type CreateBrandHandler struct {
	repo  domain.CatalogRepository
	cache cache.Cache
}

// NewCreateBrandHandler creates a new create brand handler
func NewCreateBrandHandler(repo domain.CatalogRepository, c cache.Cache) *CreateBrandHandler {
	return &CreateBrandHandler{repo: repo, cache: c}
}

// Handle executes the create brand command
func (h *CreateBrandHandler) Handle(ctx context.Context, cmd CreateBrandCommand) (*domain.Brand, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, apperror.Validation("name", "name is required")
	}

	if _, err := h.repo.FindBrandByName(ctx, name); err == nil {
		return nil, apperror.Conflict("BRAND_EXISTS", "brand already exists")
	} else if apperror.KindOf(err) != apperror.KindNotFound {
		return nil, err
	}

	brand := &domain.Brand{Name: name}
	if err := h.repo.CreateBrand(ctx, brand); err != nil {
		return nil, err
	}

	invalidateBrands(ctx, h.cache)
	return brand, nil
}

func invalidateBrands(ctx context.Context, c cache.Cache) {
	if err := c.Delete(ctx, BrandsCacheKey); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to invalidate brand cache")
	}
}
