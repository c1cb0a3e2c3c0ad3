package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/cepetdeal/marketplace/internal/catalog/domain"
)

// GormCatalogRepository implements CatalogRepository using GORM
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new catalog repository
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) CreateBrand(ctx context.Context, brand *domain.Brand) error {
	if err := r.db.WithContext(ctx).Create(brand).Error; err != nil {
		return fmt.Errorf("failed to create brand: %w", err)
	}
	return nil
}

func (r *GormCatalogRepository) FindBrandByID(ctx context.Context, id uint) (*domain.Brand, error) {
	var brand domain.Brand
	if err := r.db.WithContext(ctx).First(&brand, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to find brand: %w", err)
	}
	return &brand, nil
}

func (r *GormCatalogRepository) FindBrandByName(ctx context.Context, name string) (*domain.Brand, error) {
	var brand domain.Brand
	if err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&brand).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to find brand: %w", err)
	}
	return &brand, nil
}

func (r *GormCatalogRepository) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	var brands []domain.Brand
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&brands).Error; err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}
	return brands, nil
}

func (r *GormCatalogRepository) CreateModel(ctx context.Context, model *domain.CarModel) error {
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create model: %w", err)
	}
	return nil
}

func (r *GormCatalogRepository) FindModelByName(ctx context.Context, brandID uint, name string) (*domain.CarModel, error) {
	var model domain.CarModel
	err := r.db.WithContext(ctx).
		Where("brand_id = ? AND LOWER(name) = LOWER(?)", brandID, name).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrModelNotFound
		}
		return nil, fmt.Errorf("failed to find model: %w", err)
	}
	return &model, nil
}

func (r *GormCatalogRepository) ListModels(ctx context.Context, brandID uint) ([]domain.CarModel, error) {
	var models []domain.CarModel
	if err := r.db.WithContext(ctx).Where("brand_id = ?", brandID).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return models, nil
}
