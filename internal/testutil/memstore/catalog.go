package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/cepetdeal/marketplace/internal/catalog/domain"
)

// CatalogRepo implements domain.CatalogRepository
type CatalogRepo struct{ s *Store }

func (s *Store) Catalog() *CatalogRepo { return &CatalogRepo{s: s} }

func (r *CatalogRepo) CreateBrand(_ context.Context, brand *domain.Brand) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	brand.ID = r.s.id("brands")
	brand.CreatedAt = r.s.Now()
	r.s.brands[brand.ID] = *brand
	return nil
}

func (r *CatalogRepo) FindBrandByID(_ context.Context, id uint) (*domain.Brand, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b, ok := r.s.brands[id]
	if !ok {
		return nil, domain.ErrBrandNotFound
	}
	return &b, nil
}

func (r *CatalogRepo) FindBrandByName(_ context.Context, name string) (*domain.Brand, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.brands {
		if strings.EqualFold(b.Name, name) {
			return &b, nil
		}
	}
	return nil, domain.ErrBrandNotFound
}

func (r *CatalogRepo) ListBrands(_ context.Context) ([]domain.Brand, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]domain.Brand, 0, len(r.s.brands))
	for _, b := range r.s.brands {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CatalogRepo) CreateModel(_ context.Context, model *domain.CarModel) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	model.ID = r.s.id("car_models")
	model.CreatedAt = r.s.Now()
	r.s.models[model.ID] = *model
	return nil
}

func (r *CatalogRepo) FindModelByName(_ context.Context, brandID uint, name string) (*domain.CarModel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, m := range r.s.models {
		if m.BrandID == brandID && strings.EqualFold(m.Name, name) {
			return &m, nil
		}
	}
	return nil, domain.ErrModelNotFound
}

func (r *CatalogRepo) ListModels(_ context.Context, brandID uint) ([]domain.CarModel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []domain.CarModel{}
	for _, m := range r.s.models {
		if m.BrandID == brandID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// SeedCatalog adds a brand with the given models and returns the brand
func (s *Store) SeedCatalog(brand string, models ...string) *domain.Brand {
	ctx := context.Background()
	b := &domain.Brand{Name: brand}
	_ = s.Catalog().CreateBrand(ctx, b)
	for _, name := range models {
		_ = s.Catalog().CreateModel(ctx, &domain.CarModel{BrandID: b.ID, Name: name})
	}
	return b
}
