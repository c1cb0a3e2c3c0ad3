package domain

import (
	"context"
	"time"

	"github.com/lib/pq"

	catalogdomain "github.com/cepetdeal/marketplace/internal/catalog/domain"
	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/pkg/apperror"
)

// MinImages is the fewest photos a listing may carry
const MinImages = 3

var ErrListingNotFound = apperror.NotFound("LISTING_NOT_FOUND", "Listing not found")

// Listing represents a car advertisement
type Listing struct {
	ID           uint                    `json:"id" gorm:"primaryKey"`
	Title        string                  `json:"title" gorm:"not null"`
	Slug         string                  `json:"slug" gorm:"uniqueIndex;not null"`
	Description  string                  `json:"description" gorm:"type:text"`
	BrandID      uint                    `json:"brandId" gorm:"index;not null"`
	Brand        *catalogdomain.Brand    `json:"brand,omitempty" gorm:"foreignKey:BrandID"`
	ModelID      uint                    `json:"modelId" gorm:"index;not null"`
	Model        *catalogdomain.CarModel `json:"model,omitempty" gorm:"foreignKey:ModelID"`
	Year         int                     `json:"year" gorm:"index;not null"`
	Condition    Condition               `json:"condition" gorm:"column:car_condition;type:varchar(8);not null"`
	Mileage      int                     `json:"mileage" gorm:"not null;default:0"`
	Price        int64                   `json:"price" gorm:"index;not null"`
	Transmission string                  `json:"transmission"`
	FuelType     string                  `json:"fuelType"`
	Color        string                  `json:"color"`
	Location     string                  `json:"location"`
	Images       pq.StringArray          `json:"images" gorm:"type:text[]"`
	Status       Status                  `json:"status" gorm:"type:varchar(8);index;not null;default:'PENDING'"`
	OwnerID      uint                    `json:"ownerId" gorm:"index;not null"`
	Owner        *Seller                 `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Views        int64                   `json:"views" gorm:"not null;default:0"`
	CreatedAt    time.Time               `json:"createdAt" gorm:"index"`
	UpdatedAt    time.Time               `json:"updatedAt"`
}

// TableName specifies the table name
func (Listing) TableName() string {
	return "listings"
}

// IsOwnedBy reports whether userID owns the listing
func (l *Listing) IsOwnedBy(userID uint) bool {
	return userID != 0 && l.OwnerID == userID
}

// NormalizeMileage enforces mileage 0 for new cars
func (l *Listing) NormalizeMileage() {
	if l.Condition == ConditionNew {
		l.Mileage = 0
	}
}

// Seller is the public view of a listing owner
type Seller struct {
	ID       uint          `json:"id"`
	Username string        `json:"username"`
	FullName string        `json:"fullName"`
	Phone    string        `json:"phone"`
	City     string        `json:"city"`
	Role     identity.Role `json:"role"`
}

func (Seller) TableName() string {
	return "users"
}

// Favorite marks a listing saved by a user
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"uniqueIndex:idx_favorite_user_listing;not null"`
	ListingID uint      `json:"listingId" gorm:"uniqueIndex:idx_favorite_user_listing;index;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// SortOrder selects the ordering of search results
type SortOrder string

const (
	SortNewest     SortOrder = "newest"
	SortPriceAsc   SortOrder = "price_asc"
	SortPriceDesc  SortOrder = "price_desc"
	SortYearDesc   SortOrder = "year_desc"
	SortMostViewed SortOrder = "most_viewed"
)

// ParseSortOrder maps a query value to a SortOrder, defaulting to newest
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "":
		return SortNewest, nil
	case SortNewest, SortPriceAsc, SortPriceDesc, SortYearDesc, SortMostViewed:
		return SortOrder(s), nil
	default:
		return "", apperror.Validation("sort", "sort must be one of newest, price_asc, price_desc, year_desc, most_viewed")
	}
}

// ListingFilter narrows listing searches. Zero values match everything.
type ListingFilter struct {
	Statuses  []Status
	OwnerID   uint
	BrandID   uint
	ModelID   uint
	Condition Condition
	MinPrice  int64
	MaxPrice  int64
	MinYear   int
	MaxYear   int
	Query     string
	Sort      SortOrder
	Limit     int
	Offset    int
}

// ListingRepository defines the contract for listing data access
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id uint) (*Listing, error)
	FindBySlug(ctx context.Context, slug string) (*Listing, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]Listing, error)
	Search(ctx context.Context, filter ListingFilter) ([]Listing, int64, error)
	// Update writes the editable attributes; status, owner, slug and views are untouched
	Update(ctx context.Context, listing *Listing) error
	// Delete removes the listing together with its favorites and messages
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
	// TransitionStatus moves a listing from one status to another only if it is still
	// in the from status, reporting whether the row was changed
	TransitionStatus(ctx context.Context, id uint, from, to Status) (bool, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}

// FavoriteRepository defines the contract for favorites
type FavoriteRepository interface {
	// Add is idempotent
	Add(ctx context.Context, userID, listingID uint) error
	Remove(ctx context.Context, userID, listingID uint) error
	ListListings(ctx context.Context, userID uint) ([]Listing, error)
	IsFavorite(ctx context.Context, userID, listingID uint) (bool, error)
}

// CatalogResolver resolves brand and model names to catalogue records
type CatalogResolver interface {
	Resolve(ctx context.Context, brandName, modelName string) (*catalogdomain.Brand, *catalogdomain.CarModel, error)
}
