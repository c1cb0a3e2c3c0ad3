package query

import (
	"context"
	"strings"

	"github.com/cepetdeal/marketplace/internal/catalog/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
)

// Resolver maps free-text brand and model names to catalogue records
type Resolver struct {
	repo domain.CatalogRepository
}

func NewResolver(repo domain.CatalogRepository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve looks up a brand and one of its models by case-insensitive name.
// Unknown names are reported as validation errors on the brand or model field.
func (r *Resolver) Resolve(ctx context.Context, brandName, modelName string) (*domain.Brand, *domain.CarModel, error) {
	brandName = strings.TrimSpace(brandName)
	modelName = strings.TrimSpace(modelName)
	if brandName == "" {
		return nil, nil, apperror.Validation("brand", "brand is required")
	}
	if modelName == "" {
		return nil, nil, apperror.Validation("model", "model is required")
	}

	brand, err := r.repo.FindBrandByName(ctx, brandName)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			return nil, nil, apperror.Validation("brand", "unknown brand "+brandName)
		}
		return nil, nil, err
	}

	model, err := r.repo.FindModelByName(ctx, brand.ID, modelName)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindNotFound {
			return nil, nil, apperror.Validation("model", "unknown model "+modelName+" for brand "+brand.Name)
		}
		return nil, nil, err
	}
	return brand, model, nil
}
