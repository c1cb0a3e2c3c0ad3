package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	listingdomain "github.com/cepetdeal/marketplace/internal/listing/domain"
	listingrepo "github.com/cepetdeal/marketplace/internal/listing/repository"
	"github.com/cepetdeal/marketplace/internal/receipt/domain"
)

// GormReceiptRepository implements ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

func (r *GormReceiptRepository) Create(ctx context.Context, receipt *domain.Receipt, markSold bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if markSold {
			changed, err := listingrepo.MarkSoldTx(tx, receipt.ListingID)
			if err != nil {
				return err
			}
			if !changed {
				return listingdomain.ErrNotActive
			}
			receipt.MarkedSold = true
		}

		if err := tx.Create(receipt).Error; err != nil {
			receipt.MarkedSold = false
			return fmt.Errorf("failed to create receipt: %w", err)
		}
		return nil
	})
}

func (r *GormReceiptRepository) FindByID(ctx context.Context, id uint) (*domain.Receipt, error) {
	var receipt domain.Receipt
	if err := r.db.WithContext(ctx).First(&receipt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReceiptNotFound
		}
		return nil, fmt.Errorf("failed to find receipt: %w", err)
	}
	return &receipt, nil
}

func (r *GormReceiptRepository) List(ctx context.Context, filter domain.ReceiptFilter) ([]domain.Receipt, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Receipt{})
	if filter.SellerID != 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count receipts: %w", err)
	}

	var receipts []domain.Receipt
	err := query.Order("created_at DESC, id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&receipts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list receipts: %w", err)
	}
	return receipts, total, nil
}

func (r *GormReceiptRepository) Totals(ctx context.Context) (domain.ReceiptTotals, error) {
	var totals domain.ReceiptTotals
	err := r.db.WithContext(ctx).
		Model(&domain.Receipt{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_price), 0) AS revenue").
		Scan(&totals).Error
	if err != nil {
		return domain.ReceiptTotals{}, fmt.Errorf("failed to total receipts: %w", err)
	}
	return totals, nil
}
