package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cepetdeal/marketplace/pkg/apperror"
)

var ErrReceiptNotFound = apperror.NotFound("RECEIPT_NOT_FOUND", "Receipt not found")

// Receipt records one sale of a listing. Receipts are never updated.
type Receipt struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	ReceiptNumber string        `json:"receiptNumber" gorm:"uniqueIndex;not null"`
	ListingID     uint          `json:"listingId" gorm:"index;not null"`
	SellerID      uint          `json:"sellerId" gorm:"index;not null"`
	CreatedByID   uint          `json:"createdById" gorm:"not null"`
	ListingTitle  string        `json:"listingTitle" gorm:"not null"`
	ListingSlug   string        `json:"listingSlug"`
	BuyerName     string        `json:"buyerName" gorm:"not null"`
	BuyerAddress  string        `json:"buyerAddress" gorm:"type:text;not null"`
	BuyerPhone    string        `json:"buyerPhone"`
	PaymentMethod PaymentMethod `json:"paymentMethod" gorm:"type:varchar(8);not null"`
	TandaJadi     int64         `json:"tandaJadi" gorm:"not null;default:0"`
	DownPayment   int64         `json:"downPayment" gorm:"not null;default:0"`
	TotalPaid     int64         `json:"totalPaid" gorm:"not null"`
	Remaining     int64         `json:"remaining" gorm:"not null"`
	TotalPrice    int64         `json:"totalPrice" gorm:"not null"`
	Notes         string        `json:"notes" gorm:"type:text"`
	MarkedSold    bool          `json:"markedSold"`
	CreatedAt     time.Time     `json:"createdAt" gorm:"index"`
}

func (Receipt) TableName() string {
	return "receipts"
}

// NewReceiptNumber returns CD-YYYYMMDD-XXXXXXXX, the suffix being eight random
// upper-case hex digits
func NewReceiptNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return "CD-" + at.Format("20060102") + "-" + suffix
}

// ReceiptFilter narrows receipt listings. SellerID 0 means every seller.
type ReceiptFilter struct {
	SellerID uint
	Limit    int
	Offset   int
}

// ReceiptTotals aggregates all receipts
type ReceiptTotals struct {
	Count   int64 `json:"count"`
	Revenue int64 `json:"revenue"`
}

// ReceiptRepository defines the contract for receipt data access
type ReceiptRepository interface {
	// Create stores the receipt. With markSold the listing is moved from ACTIVE to
	// SOLD in the same transaction and nothing is stored if that update fails.
	Create(ctx context.Context, receipt *Receipt, markSold bool) error
	FindByID(ctx context.Context, id uint) (*Receipt, error)
	List(ctx context.Context, filter ReceiptFilter) ([]Receipt, int64, error)
	Totals(ctx context.Context) (ReceiptTotals, error)
}
