package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/user/domain"
)

// GormDealerRepository implements DealerRepository using GORM
type GormDealerRepository struct {
	db *gorm.DB
}

func NewGormDealerRepository(db *gorm.DB) *GormDealerRepository {
	return &GormDealerRepository{db: db}
}

func (r *GormDealerRepository) Create(ctx context.Context, dealer *domain.Dealer) error {
	if err := r.db.WithContext(ctx).Create(dealer).Error; err != nil {
		return fmt.Errorf("failed to create dealer: %w", err)
	}
	return nil
}

func (r *GormDealerRepository) FindByID(ctx context.Context, id uint) (*domain.Dealer, error) {
	return r.findOne(ctx, "dealers.id = ?", id)
}

func (r *GormDealerRepository) FindByUserID(ctx context.Context, userID uint) (*domain.Dealer, error) {
	return r.findOne(ctx, "dealers.user_id = ?", userID)
}

func (r *GormDealerRepository) findOne(ctx context.Context, cond string, arg interface{}) (*domain.Dealer, error) {
	var dealer domain.Dealer
	if err := r.db.WithContext(ctx).Preload("User").Where(cond, arg).First(&dealer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDealerNotFound
		}
		return nil, fmt.Errorf("failed to find dealer: %w", err)
	}
	return &dealer, nil
}

func (r *GormDealerRepository) List(ctx context.Context, filter domain.DealerFilter) ([]domain.Dealer, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Dealer{})
	if filter.Verified != nil {
		query = query.Where("is_verified = ?", *filter.Verified)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count dealers: %w", err)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var dealers []domain.Dealer
	if err := query.Preload("User").Order("created_at DESC").Find(&dealers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list dealers: %w", err)
	}
	return dealers, total, nil
}

func (r *GormDealerRepository) SetVerification(ctx context.Context, dealerID uint, verified bool, at time.Time) (*domain.Dealer, error) {
	var dealer domain.Dealer

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&dealer, dealerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrDealerNotFound
			}
			return fmt.Errorf("failed to find dealer: %w", err)
		}

		var verifiedAt *time.Time
		if verified {
			verifiedAt = &at
		}
		if err := tx.Model(&dealer).Updates(map[string]interface{}{
			"is_verified": verified,
			"verified_at": verifiedAt,
		}).Error; err != nil {
			return fmt.Errorf("failed to update dealer verification: %w", err)
		}

		role := identity.RoleSeller
		if verified {
			role = identity.RoleDealer
		}
		if err := tx.Model(&domain.User{}).
			Where("id = ? AND role <> ?", dealer.UserID, identity.RoleAdmin).
			Update("role", role).Error; err != nil {
			return fmt.Errorf("failed to update dealer role: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(ctx, dealerID)
}

func (r *GormDealerRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Dealer{}).Where("is_verified = ?", false).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count pending dealers: %w", err)
	}
	return count, nil
}
