package domain

import (
	"context"
	"time"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/pkg/apperror"
)

// UsernameChangeCooldown is the minimum time between two username changes
const UsernameChangeCooldown = 30 * 24 * time.Hour

var (
	ErrUserNotFound   = apperror.NotFound("USER_NOT_FOUND", "User not found")
	ErrDealerNotFound = apperror.NotFound("DEALER_NOT_FOUND", "Dealer not found")
)

// User represents the user entity (domain model)
type User struct {
	ID                uint          `json:"id" gorm:"primaryKey"`
	Username          string        `json:"username" gorm:"uniqueIndex;size:30;not null"`
	Email             string        `json:"email" gorm:"uniqueIndex;not null"`
	Password          string        `json:"-" gorm:"not null"`
	FullName          string        `json:"fullName" gorm:"not null"`
	Phone             string        `json:"phone"`
	City              string        `json:"city"`
	Role              identity.Role `json:"role" gorm:"type:varchar(16);index;not null;default:'BUYER'"`
	IsActive          bool          `json:"isActive" gorm:"default:true"`
	UsernameChangedAt *time.Time    `json:"usernameChangedAt,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
	UpdatedAt         time.Time     `json:"updatedAt"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

// IsAdmin checks if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role.IsAdmin()
}

// Principal returns the request identity of u
func (u *User) Principal() identity.Principal {
	return identity.Principal{UserID: u.ID, Username: u.Username, Role: u.Role}
}

// NextUsernameChange is the earliest time the username may change again.
// Accounts that never changed their username count from registration.
func (u *User) NextUsernameChange() time.Time {
	from := u.CreatedAt
	if u.UsernameChangedAt != nil {
		from = *u.UsernameChangedAt
	}
	return from.Add(UsernameChangeCooldown)
}

// UsernameCooldownDays returns the whole days, rounded up, until the username may
// change again; 0 means a change is allowed now.
func (u *User) UsernameCooldownDays(now time.Time) int {
	remaining := u.NextUsernameChange().Sub(now)
	if remaining <= 0 {
		return 0
	}
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// UserFilter narrows user listings
type UserFilter struct {
	Role   identity.Role
	Limit  int
	Offset int
}

// UserRepository defines the contract for user data access
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter UserFilter) ([]User, int64, error)
	Update(ctx context.Context, user *User) error
	CountByRole(ctx context.Context) (map[identity.Role]int64, error)
}
