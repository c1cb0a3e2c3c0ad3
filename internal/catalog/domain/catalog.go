package domain

import (
	"context"
	"time"

	"github.com/cepetdeal/marketplace/pkg/apperror"
)

var (
	ErrBrandNotFound = apperror.NotFound("BRAND_NOT_FOUND", "Brand not found")
	ErrModelNotFound = apperror.NotFound("MODEL_NOT_FOUND", "Model not found")
)

// Brand is a car manufacturer
type Brand struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Name      string     `json:"name" gorm:"uniqueIndex;not null"`
	Models    []CarModel `json:"models,omitempty" gorm:"foreignKey:BrandID"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (Brand) TableName() string {
	return "brands"
}

// CarModel is a model line of a brand; names are unique per brand
type CarModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BrandID   uint      `json:"brandId" gorm:"uniqueIndex:idx_brand_model;not null"`
	Name      string    `json:"name" gorm:"uniqueIndex:idx_brand_model;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func (CarModel) TableName() string {
	return "car_models"
}

// CatalogRepository defines the contract for brand and model data access.
// Name lookups are case-insensitive exact matches.
type CatalogRepository interface {
	CreateBrand(ctx context.Context, brand *Brand) error
	FindBrandByID(ctx context.Context, id uint) (*Brand, error)
	FindBrandByName(ctx context.Context, name string) (*Brand, error)
	ListBrands(ctx context.Context) ([]Brand, error)
	CreateModel(ctx context.Context, model *CarModel) error
	FindModelByName(ctx context.Context, brandID uint, name string) (*CarModel, error)
	ListModels(ctx context.Context, brandID uint) ([]CarModel, error)
}
