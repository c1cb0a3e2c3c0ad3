package command

import (
	"context"
	"strings"

	"github.com/cepetdeal/marketplace/internal/catalog/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/cache"
)

// CreateModelCommand adds a model line to a brand
type CreateModelCommand struct {
	BrandID uint
	Name    string
}

type CreateModelHandler struct {
	repo  domain.CatalogRepository
	cache cache.Cache
}

func NewCreateModelHandler(repo domain.CatalogRepository, c cache.Cache) *CreateModelHandler {
	return &CreateModelHandler{repo: repo, cache: c}
}

func (h *CreateModelHandler) Handle(ctx context.Context, cmd CreateModelCommand) (*domain.CarModel, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, apperror.Validation("name", "name is required")
	}

	if _, err := h.repo.FindBrandByID(ctx, cmd.BrandID); err != nil {
		return nil, err
	}

	if _, err := h.repo.FindModelByName(ctx, cmd.BrandID, name); err == nil {
		return nil, apperror.Conflict("MODEL_EXISTS", "model already exists for this brand")
	} else if apperror.KindOf(err) != apperror.KindNotFound {
		return nil, err
	}

	model := &domain.CarModel{BrandID: cmd.BrandID, Name: name}
	if err := h.repo.CreateModel(ctx, model); err != nil {
		return nil, err
	}

	invalidateBrands(ctx, h.cache)
	return model, nil
}
