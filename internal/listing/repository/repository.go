package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cepetdeal/marketplace/internal/listing/domain"
	messagedomain "github.com/cepetdeal/marketplace/internal/message/domain"
)

// GormListingRepository implements ListingRepository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new listing repository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

func (r *GormListingRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Brand").Preload("Model").Preload("Owner")
}

// Create inserts a new listing
func (r *GormListingRepository) Create(ctx context.Context, listing *domain.Listing) error {
	if err := r.db.WithContext(ctx).Omit("Brand", "Model", "Owner").Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// FindByID retrieves a listing by ID
func (r *GormListingRepository) FindByID(ctx context.Context, id uint) (*domain.Listing, error) {
	var listing domain.Listing
	if err := r.withRelations(ctx).First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}
	return &listing, nil
}

// FindBySlug retrieves a listing by slug
func (r *GormListingRepository) FindBySlug(ctx context.Context, slug string) (*domain.Listing, error) {
	var listing domain.Listing
	if err := r.withRelations(ctx).Where("slug = ?", slug).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}
	return &listing, nil
}

// FindBySlugs retrieves every listing whose slug is in slugs
func (r *GormListingRepository) FindBySlugs(ctx context.Context, slugs []string) ([]domain.Listing, error) {
	var listings []domain.Listing
	if err := r.withRelations(ctx).Where("slug IN ?", slugs).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to find listings: %w", err)
	}
	return listings, nil
}

// Search returns a page of listings matching filter and the total match count
func (r *GormListingRepository) Search(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Listing{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.OwnerID != 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.BrandID != 0 {
		query = query.Where("brand_id = ?", filter.BrandID)
	}
	if filter.ModelID != 0 {
		query = query.Where("model_id = ?", filter.ModelID)
	}
	if filter.Condition != "" {
		query = query.Where("car_condition = ?", filter.Condition)
	}
	if filter.MinPrice > 0 {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("price <= ?", filter.MaxPrice)
	}
	if filter.MinYear > 0 {
		query = query.Where("year >= ?", filter.MinYear)
	}
	if filter.MaxYear > 0 {
		query = query.Where("year <= ?", filter.MaxYear)
	}
	if filter.Query != "" {
		like := containsPattern(filter.Query)
		query = query.Where(`(title ILIKE ? ESCAPE '\' OR description ILIKE ? ESCAPE '\' OR location ILIKE ? ESCAPE '\')`, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	query = query.Order(orderClause(filter.Sort))
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var listings []domain.Listing
	if err := query.Preload("Brand").Preload("Model").Preload("Owner").Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to search listings: %w", err)
	}
	return listings, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches q literally anywhere in a column
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

func orderClause(sort domain.SortOrder) string {
	switch sort {
	case domain.SortPriceAsc:
		return "price ASC, id DESC"
	case domain.SortPriceDesc:
		return "price DESC, id DESC"
	case domain.SortYearDesc:
		return "year DESC, id DESC"
	case domain.SortMostViewed:
		return "views DESC, id DESC"
	default:
		return "created_at DESC, id DESC"
	}
}

// Update writes the editable attributes of a listing
func (r *GormListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	err := r.db.WithContext(ctx).
		Model(listing).
		Select("title", "description", "brand_id", "model_id", "year", "car_condition", "mileage",
			"price", "transmission", "fuel_type", "color", "location", "images", "updated_at").
		Updates(listing).Error
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	return nil
}

// Delete hard deletes a listing with its favorites and messages. Receipts are kept
// and still carry the listing id and title snapshot.
func (r *GormListingRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", id).Delete(&domain.Favorite{}).Error; err != nil {
			return fmt.Errorf("failed to delete favorites: %w", err)
		}
		if err := tx.Where("listing_id = ?", id).Delete(&messagedomain.Message{}).Error; err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}

		result := tx.Delete(&domain.Listing{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete listing: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrListingNotFound
		}
		return nil
	})
}

// IncrementViews bumps the view counter in a single UPDATE
func (r *GormListingRepository) IncrementViews(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Listing{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	return nil
}

// TransitionStatus performs a conditional status update
func (r *GormListingRepository) TransitionStatus(ctx context.Context, id uint, from, to domain.Status) (bool, error) {
	return transitionStatus(r.db.WithContext(ctx), id, from, to)
}

func transitionStatus(db *gorm.DB, id uint, from, to domain.Status) (bool, error) {
	result := db.Model(&domain.Listing{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update listing status: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

// CountByStatus returns the number of listings per status
func (r *GormListingRepository) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	var rows []struct {
		Status domain.Status
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Listing{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count listings by status: %w", err)
	}

	counts := make(map[domain.Status]int64, len(domain.Statuses))
	for _, st := range domain.Statuses {
		counts[st] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// MarkSoldTx is the conditional ACTIVE to SOLD update for use inside another
// repository's transaction
func MarkSoldTx(tx *gorm.DB, id uint) (bool, error) {
	return transitionStatus(tx, id, domain.StatusActive, domain.StatusSold)
}
