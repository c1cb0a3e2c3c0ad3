package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/user/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
)

// UserRepo implements domain.UserRepository
type UserRepo struct{ s *Store }

func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

func (r *UserRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return apperror.Conflict("DUPLICATE", "duplicate user")
		}
	}
	user.ID = r.s.id("users")
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.s.Now()
	}
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepo) find(match func(domain.User) bool) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *UserRepo) List(_ context.Context, filter domain.UserFilter) ([]domain.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.User
	for _, u := range r.s.users {
		if filter.Role == "" || u.Role == filter.Role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, filter.Limit, filter.Offset), int64(len(out)), nil
}

func (r *UserRepo) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	user.UpdatedAt = r.s.Now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepo) CountByRole(_ context.Context) (map[identity.Role]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := map[identity.Role]int64{}
	for _, role := range identity.Roles {
		counts[role] = 0
	}
	for _, u := range r.s.users {
		counts[u.Role]++
	}
	return counts, nil
}

// DealerRepo implements domain.DealerRepository
type DealerRepo struct{ s *Store }

func (s *Store) Dealers() *DealerRepo { return &DealerRepo{s: s} }

func (r *DealerRepo) withUser(d domain.Dealer) domain.Dealer {
	if u, ok := r.s.users[d.UserID]; ok {
		d.User = &u
	}
	return d
}

func (r *DealerRepo) Create(_ context.Context, dealer *domain.Dealer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, d := range r.s.dealers {
		if d.UserID == dealer.UserID {
			return apperror.Conflict("DUPLICATE", "duplicate dealer")
		}
	}
	dealer.ID = r.s.id("dealers")
	dealer.CreatedAt = r.s.Now()
	dealer.UpdatedAt = dealer.CreatedAt
	r.s.dealers[dealer.ID] = *dealer
	return nil
}

func (r *DealerRepo) FindByID(_ context.Context, id uint) (*domain.Dealer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.dealers[id]
	if !ok {
		return nil, domain.ErrDealerNotFound
	}
	d = r.withUser(d)
	return &d, nil
}

func (r *DealerRepo) FindByUserID(_ context.Context, userID uint) (*domain.Dealer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, d := range r.s.dealers {
		if d.UserID == userID {
			d = r.withUser(d)
			return &d, nil
		}
	}
	return nil, domain.ErrDealerNotFound
}

func (r *DealerRepo) List(_ context.Context, filter domain.DealerFilter) ([]domain.Dealer, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.Dealer
	for _, d := range r.s.dealers {
		if filter.Verified == nil || d.IsVerified == *filter.Verified {
			out = append(out, r.withUser(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, filter.Limit, filter.Offset), int64(len(out)), nil
}

func (r *DealerRepo) SetVerification(_ context.Context, dealerID uint, verified bool, at time.Time) (*domain.Dealer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.dealers[dealerID]
	if !ok {
		return nil, domain.ErrDealerNotFound
	}
	d.IsVerified = verified
	d.VerifiedAt = nil
	if verified {
		d.VerifiedAt = &at
	}
	r.s.dealers[dealerID] = d

	if u, ok := r.s.users[d.UserID]; ok && u.Role != identity.RoleAdmin {
		u.Role = identity.RoleSeller
		if verified {
			u.Role = identity.RoleDealer
		}
		r.s.users[u.ID] = u
	}

	d = r.withUser(d)
	return &d, nil
}

func (r *DealerRepo) CountPending(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, d := range r.s.dealers {
		if !d.IsVerified {
			n++
		}
	}
	return n, nil
}

// SeedUser adds an active user with the given role and returns it
func (s *Store) SeedUser(username string, role identity.Role) *domain.User {
	u := &domain.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		FullName: "User " + username,
		Phone:    "08123456789",
		City:     "Jakarta",
		Role:     role,
		IsActive: true,
	}
	_ = s.Users().Create(context.Background(), u)
	return u
}
