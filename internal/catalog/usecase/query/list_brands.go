package query

import (
	"context"
	"time"

	"github.com/cepetdeal/marketplace/internal/catalog/domain"
	"github.com/cepetdeal/marketplace/internal/catalog/usecase/command"
	"github.com/cepetdeal/marketplace/pkg/cache"
	"github.com/cepetdeal/marketplace/pkg/logger"
)

// ListBrandsHandler returns every brand, served from cache when possible
type ListBrandsHandler struct {
	repo  domain.CatalogRepository
	cache cache.Cache
	ttl   time.Duration
}

func NewListBrandsHandler(repo domain.CatalogRepository, c cache.Cache, ttl time.Duration) *ListBrandsHandler {
	return &ListBrandsHandler{repo: repo, cache: c, ttl: ttl}
}

func (h *ListBrandsHandler) Handle(ctx context.Context) ([]domain.Brand, error) {
	var brands []domain.Brand
	found, err := h.cache.Get(ctx, command.BrandsCacheKey, &brands)
	if err != nil {
		logger.Warn(ctx).Err(err).Msg("Brand cache read failed")
	}
	if found {
		return brands, nil
	}

	brands, err = h.repo.ListBrands(ctx)
	if err != nil {
		return nil, err
	}
	if brands == nil {
		brands = []domain.Brand{}
	}

	if err := h.cache.Set(ctx, command.BrandsCacheKey, brands, h.ttl); err != nil {
		logger.Warn(ctx).Err(err).Msg("Brand cache write failed")
	}
	return brands, nil
}

// ListModelsHandler returns the models of one brand
type ListModelsHandler struct {
	repo domain.CatalogRepository
}

func NewListModelsHandler(repo domain.CatalogRepository) *ListModelsHandler {
	return &ListModelsHandler{repo: repo}
}

func (h *ListModelsHandler) Handle(ctx context.Context, brandID uint) ([]domain.CarModel, error) {
	if _, err := h.repo.FindBrandByID(ctx, brandID); err != nil {
		return nil, err
	}
	models, err := h.repo.ListModels(ctx, brandID)
	if err != nil {
		return nil, err
	}
	if models == nil {
		models = []domain.CarModel{}
	}
	return models, nil
}
