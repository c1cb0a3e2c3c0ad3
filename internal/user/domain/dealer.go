package domain

import (
	"context"
	"time"
)

// Dealer is a business profile attached to a single user. Only admins change
// IsVerified.
type Dealer struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserID       uint       `json:"userId" gorm:"uniqueIndex;not null"`
	User         *User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	BusinessName string     `json:"businessName" gorm:"not null"`
	Address      string     `json:"address" gorm:"not null"`
	City         string     `json:"city" gorm:"index;not null"`
	Phone        string     `json:"phone" gorm:"not null"`
	Description  string     `json:"description"`
	IsVerified   bool       `json:"isVerified" gorm:"index;default:false"`
	VerifiedAt   *time.Time `json:"verifiedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (Dealer) TableName() string {
	return "dealers"
}

// DealerFilter narrows dealer listings; a nil Verified matches both states
type DealerFilter struct {
	Verified *bool
	Limit    int
	Offset   int
}

// DealerRepository defines the contract for dealer data access
type DealerRepository interface {
	Create(ctx context.Context, dealer *Dealer) error
	FindByID(ctx context.Context, id uint) (*Dealer, error)
	FindByUserID(ctx context.Context, userID uint) (*Dealer, error)
	List(ctx context.Context, filter DealerFilter) ([]Dealer, int64, error)
	// SetVerification flips the verification flag and the owner's role in one
	// transaction: verified owners become DEALER, revoked ones SELLER. Admins keep
	// their role.
	SetVerification(ctx context.Context, dealerID uint, verified bool, at time.Time) (*Dealer, error)
	CountPending(ctx context.Context) (int64, error)
}
