package memstore

import (
	"context"
	"sort"
	"strings"

	"github.com/cepetdeal/marketplace/internal/listing/domain"
)

// ListingRepo implements domain.ListingRepository
type ListingRepo struct{ s *Store }

func (s *Store) Listings() *ListingRepo { return &ListingRepo{s: s} }

// hydrate fills the relations the database repository preloads. Callers hold the lock.
func (s *Store) hydrate(l domain.Listing) domain.Listing {
	if b, ok := s.brands[l.BrandID]; ok {
		l.Brand = &b
	}
	if m, ok := s.models[l.ModelID]; ok {
		l.Model = &m
	}
	if u, ok := s.users[l.OwnerID]; ok {
		l.Owner = &domain.Seller{ID: u.ID, Username: u.Username, FullName: u.FullName, Phone: u.Phone, City: u.City, Role: u.Role}
	}
	l.Images = append([]string(nil), l.Images...)
	return l
}

func (r *ListingRepo) Create(_ context.Context, listing *domain.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	listing.ID = r.s.id("listings")
	listing.CreatedAt = r.s.Now()
	listing.UpdatedAt = listing.CreatedAt
	stored := *listing
	stored.Brand, stored.Model, stored.Owner = nil, nil, nil
	r.s.listings[listing.ID] = stored
	return nil
}

func (r *ListingRepo) FindByID(_ context.Context, id uint) (*domain.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	l = r.s.hydrate(l)
	return &l, nil
}

func (r *ListingRepo) FindBySlug(_ context.Context, slug string) (*domain.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, l := range r.s.listings {
		if l.Slug == slug {
			l = r.s.hydrate(l)
			return &l, nil
		}
	}
	return nil, domain.ErrListingNotFound
}

func (r *ListingRepo) FindBySlugs(_ context.Context, slugs []string) ([]domain.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	want := make(map[string]bool, len(slugs))
	for _, s := range slugs {
		want[s] = true
	}
	out := []domain.Listing{}
	for _, l := range r.s.listings {
		if want[l.Slug] {
			out = append(out, r.s.hydrate(l))
		}
	}
	return out, nil
}

func matches(l domain.Listing, f domain.ListingFilter) bool {
	if len(f.Statuses) > 0 {
		found := false
		for _, st := range f.Statuses {
			found = found || l.Status == st
		}
		if !found {
			return false
		}
	}
	switch {
	case f.OwnerID != 0 && l.OwnerID != f.OwnerID,
		f.BrandID != 0 && l.BrandID != f.BrandID,
		f.ModelID != 0 && l.ModelID != f.ModelID,
		f.Condition != "" && l.Condition != f.Condition,
		f.MinPrice > 0 && l.Price < f.MinPrice,
		f.MaxPrice > 0 && l.Price > f.MaxPrice,
		f.MinYear > 0 && l.Year < f.MinYear,
		f.MaxYear > 0 && l.Year > f.MaxYear:
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		text := strings.ToLower(l.Title + " " + l.Description + " " + l.Location)
		if !strings.Contains(text, q) {
			return false
		}
	}
	return true
}

func (r *ListingRepo) Search(_ context.Context, f domain.ListingFilter) ([]domain.Listing, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []domain.Listing{}
	for _, l := range r.s.listings {
		if matches(l, f) {
			out = append(out, l)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch f.Sort {
		case domain.SortPriceAsc:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
		case domain.SortPriceDesc:
			if a.Price != b.Price {
				return a.Price > b.Price
			}
		case domain.SortYearDesc:
			if a.Year != b.Year {
				return a.Year > b.Year
			}
		case domain.SortMostViewed:
			if a.Views != b.Views {
				return a.Views > b.Views
			}
		}
		return a.ID > b.ID
	})

	total := int64(len(out))
	out = page(out, f.Limit, f.Offset)
	for i := range out {
		out[i] = r.s.hydrate(out[i])
	}
	return out, total, nil
}

func (r *ListingRepo) Update(_ context.Context, listing *domain.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.listings[listing.ID]
	if !ok {
		return domain.ErrListingNotFound
	}
	stored.Title = listing.Title
	stored.Description = listing.Description
	stored.BrandID = listing.BrandID
	stored.ModelID = listing.ModelID
	stored.Year = listing.Year
	stored.Condition = listing.Condition
	stored.Mileage = listing.Mileage
	stored.Price = listing.Price
	stored.Transmission = listing.Transmission
	stored.FuelType = listing.FuelType
	stored.Color = listing.Color
	stored.Location = listing.Location
	stored.Images = append([]string(nil), listing.Images...)
	stored.UpdatedAt = r.s.Now()
	r.s.listings[listing.ID] = stored
	listing.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *ListingRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.listings[id]; !ok {
		return domain.ErrListingNotFound
	}
	for key := range r.s.favorites {
		if key[1] == id {
			delete(r.s.favorites, key)
		}
	}
	for mid, m := range r.s.messages {
		if m.ListingID == id {
			delete(r.s.messages, mid)
		}
	}
	delete(r.s.listings, id)
	return nil
}

func (r *ListingRepo) IncrementViews(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l, ok := r.s.listings[id]
	if !ok {
		return domain.ErrListingNotFound
	}
	l.Views++
	r.s.listings[id] = l
	return nil
}

func (r *ListingRepo) TransitionStatus(_ context.Context, id uint, from, to domain.Status) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.s.transition(id, from, to), nil
}

// transition is the conditional status update. Callers hold the lock.
func (s *Store) transition(id uint, from, to domain.Status) bool {
	l, ok := s.listings[id]
	if !ok || l.Status != from {
		return false
	}
	l.Status = to
	l.UpdatedAt = s.Now()
	s.listings[id] = l
	return true
}

func (r *ListingRepo) CountByStatus(_ context.Context) (map[domain.Status]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	counts := make(map[domain.Status]int64, len(domain.Statuses))
	for _, st := range domain.Statuses {
		counts[st] = 0
	}
	for _, l := range r.s.listings {
		counts[l.Status]++
	}
	return counts, nil
}

// SetStatus forces a listing status, bypassing the state machine
func (s *Store) SetStatus(id uint, status domain.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l, ok := s.listings[id]; ok {
		l.Status = status
		s.listings[id] = l
	}
}

// FavoriteRepo implements domain.FavoriteRepository
type FavoriteRepo struct{ s *Store }

func (s *Store) Favorites() *FavoriteRepo { return &FavoriteRepo{s: s} }

func (r *FavoriteRepo) Add(_ context.Context, userID, listingID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := [2]uint{userID, listingID}
	if _, ok := r.s.favorites[key]; ok {
		return nil
	}
	r.s.favorites[key] = domain.Favorite{
		ID:        r.s.id("favorites"),
		UserID:    userID,
		ListingID: listingID,
		CreatedAt: r.s.Now(),
	}
	return nil
}

func (r *FavoriteRepo) Remove(_ context.Context, userID, listingID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.favorites, [2]uint{userID, listingID})
	return nil
}

func (r *FavoriteRepo) ListListings(_ context.Context, userID uint) ([]domain.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	favs := []domain.Favorite{}
	for key, f := range r.s.favorites {
		if key[0] == userID {
			favs = append(favs, f)
		}
	}
	sort.Slice(favs, func(i, j int) bool { return favs[i].ID > favs[j].ID })

	out := make([]domain.Listing, 0, len(favs))
	for _, f := range favs {
		if l, ok := r.s.listings[f.ListingID]; ok {
			out = append(out, r.s.hydrate(l))
		}
	}
	return out, nil
}

func (r *FavoriteRepo) IsFavorite(_ context.Context, userID, listingID uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.favorites[[2]uint{userID, listingID}]
	return ok, nil
}
