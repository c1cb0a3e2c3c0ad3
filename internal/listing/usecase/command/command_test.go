package command

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogquery "github.com/cepetdeal/marketplace/internal/catalog/usecase/query"
	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/listing/domain"
	"github.com/cepetdeal/marketplace/internal/testutil/memstore"
	"github.com/cepetdeal/marketplace/kafka"
	"github.com/cepetdeal/marketplace/pkg/apperror"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.ListingEvent
	err    error
}

func (p *recordingPublisher) PublishListingEvent(_ context.Context, e kafka.ListingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) PublishReceiptEvent(context.Context, kafka.ReceiptEvent) error {
	return nil
}

var (
	seller = identity.Principal{UserID: 10, Username: "penjual", Role: identity.RoleSeller}
	other  = identity.Principal{UserID: 11, Username: "lain", Role: identity.RoleBuyer}
	admin  = identity.Principal{UserID: 1, Username: "admin", Role: identity.RoleAdmin}
)

func validCreate(p identity.Principal) CreateListingCommand {
	return CreateListingCommand{
		Principal: p,
		Title:     "Toyota Avanza 2019 Mulus",
		Brand:     "toyota",
		Model:     "AVANZA",
		Year:      2019,
		Condition: "USED",
		Mileage:   45000,
		Price:     185000000,
		Location:  "Jakarta",
		Images: []string{
			"https://img.example.com/1.jpg",
			"https://img.example.com/2.jpg",
			"https://img.example.com/3.jpg",
		},
	}
}

func newCreate(store *memstore.Store, pub kafka.EventPublisher) *CreateListingHandler {
	store.SeedCatalog("Toyota", "Avanza", "Innova")
	return NewCreateListingHandler(store.Listings(), catalogquery.NewResolver(store.Catalog()), pub)
}

func TestCreateListingInitialStatus(t *testing.T) {
	store := memstore.New()
	pub := &recordingPublisher{}
	h := newCreate(store, pub)

	l, err := h.Handle(t.Context(), validCreate(seller))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, l.Status)
	assert.Equal(t, "Toyota", l.Brand.Name)
	assert.Equal(t, "Avanza", l.Model.Name)
	assert.Regexp(t, regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`), l.Slug)

	l, err = h.Handle(t.Context(), validCreate(admin))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, l.Status)

	require.Len(t, pub.events, 2)
	assert.Equal(t, kafka.EventTypeListingCreated, pub.events[0].EventType)
}

func TestCreateNewCarForcesZeroMileage(t *testing.T) {
	store := memstore.New()
	h := newCreate(store, kafka.NopPublisher{})

	cmd := validCreate(seller)
	cmd.Condition = "new"
	cmd.Mileage = 12000
	l, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, domain.ConditionNew, l.Condition)
	assert.Zero(t, l.Mileage)
}

func TestCreateListingSlugUsesClock(t *testing.T) {
	store := memstore.New()
	at := time.UnixMilli(1700000000123)
	h := newCreate(store, kafka.NopPublisher{}).WithClock(func() time.Time { return at })

	cmd := validCreate(seller)
	cmd.Title = "Honda  Jazz RS!!"
	l, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, "honda-jazz-rs-1700000000123", l.Slug)
}

func TestCreateListingValidation(t *testing.T) {
	store := memstore.New()
	h := newCreate(store, kafka.NopPublisher{})

	tests := []struct {
		name   string
		mutate func(*CreateListingCommand)
		field  string
	}{
		{"missing title", func(c *CreateListingCommand) { c.Title = "  " }, "title"},
		{"zero price", func(c *CreateListingCommand) { c.Price = 0 }, "price"},
		{"bad condition", func(c *CreateListingCommand) { c.Condition = "RUSAK" }, "condition"},
		{"too few images", func(c *CreateListingCommand) { c.Images = c.Images[:2] }, "images"},
		{"bad image url", func(c *CreateListingCommand) { c.Images[0] = "ftp://x/1.jpg" }, "images"},
		{"year too old", func(c *CreateListingCommand) { c.Year = 1900 }, "year"},
		{"unknown brand", func(c *CreateListingCommand) { c.Brand = "Tesla" }, "brand"},
		{"unknown model", func(c *CreateListingCommand) { c.Model = "Supra" }, "model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := validCreate(seller)
			cmd.Images = append([]string(nil), cmd.Images...)
			tt.mutate(&cmd)

			_, err := h.Handle(t.Context(), cmd)
			appErr, ok := apperror.As(err)
			require.True(t, ok, "expected apperror, got %v", err)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}

func TestUpdateStatusLifecycle(t *testing.T) {
	store := memstore.New()
	pub := &recordingPublisher{}
	l, err := newCreate(store, pub).Handle(t.Context(), validCreate(seller))
	require.NoError(t, err)
	h := NewUpdateStatusHandler(store.Listings(), pub)

	// pending listings cannot be sold
	_, err = h.Handle(t.Context(), UpdateStatusCommand{Principal: seller, ListingID: l.ID, Action: "mark_sold"})
	assert.ErrorIs(t, err, domain.ErrNotActive)

	// only admins approve
	_, err = h.Handle(t.Context(), UpdateStatusCommand{Principal: seller, ListingID: l.ID, Action: "mark_active"})
	assert.ErrorIs(t, err, domain.ErrAdminOnly)

	got, err := h.Handle(t.Context(), UpdateStatusCommand{Principal: admin, ListingID: l.ID, Action: "mark_active"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, got.Status)

	_, err = h.Handle(t.Context(), UpdateStatusCommand{Principal: other, ListingID: l.ID, Action: "mark_sold"})
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	got, err = h.Handle(t.Context(), UpdateStatusCommand{Principal: seller, ListingID: l.ID, Action: "mark_sold"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSold, got.Status)

	_, err = h.Handle(t.Context(), UpdateStatusCommand{Principal: admin, ListingID: l.ID, Action: "mark_active"})
	assert.ErrorIs(t, err, domain.ErrSold)

	last := pub.events[len(pub.events)-1]
	assert.Equal(t, kafka.EventTypeListingStatusChanged, last.EventType)
	assert.Equal(t, "ACTIVE", last.PreviousStatus)
	assert.Equal(t, "SOLD", last.Status)
}

func TestUpdateStatusHidesPendingFromStrangers(t *testing.T) {
	store := memstore.New()
	l, err := newCreate(store, kafka.NopPublisher{}).Handle(t.Context(), validCreate(seller))
	require.NoError(t, err)

	_, err = NewUpdateStatusHandler(store.Listings(), kafka.NopPublisher{}).
		Handle(t.Context(), UpdateStatusCommand{Principal: other, ListingID: l.ID, Action: "mark_sold"})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

// staleRepo reports every conditional update as lost
type staleRepo struct {
	domain.ListingRepository
}

func (staleRepo) TransitionStatus(context.Context, uint, domain.Status, domain.Status) (bool, error) {
	return false, nil
}

func TestUpdateStatusLostRace(t *testing.T) {
	store := memstore.New()
	l, err := newCreate(store, kafka.NopPublisher{}).Handle(t.Context(), validCreate(admin))
	require.NoError(t, err)

	_, err = NewUpdateStatusHandler(staleRepo{store.Listings()}, kafka.NopPublisher{}).
		Handle(t.Context(), UpdateStatusCommand{Principal: admin, ListingID: l.ID, Action: "mark_sold"})
	assert.ErrorIs(t, err, domain.ErrStatusChanged)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	store := memstore.New()
	pub := &recordingPublisher{err: errors.New("kafka down")}

	l, err := newCreate(store, pub).Handle(t.Context(), validCreate(seller))
	require.NoError(t, err)

	_, err = store.Listings().FindByID(t.Context(), l.ID)
	assert.NoError(t, err)
}

func TestDeleteRules(t *testing.T) {
	store := memstore.New()
	create := newCreate(store, kafka.NopPublisher{})
	del := NewDeleteListingHandler(store.Listings(), kafka.NopPublisher{})

	pending, err := create.Handle(t.Context(), validCreate(seller))
	require.NoError(t, err)
	err = del.Handle(t.Context(), DeleteListingCommand{Principal: other, Slug: pending.Slug})
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	store.SetStatus(pending.ID, domain.StatusActive)
	err = del.Handle(t.Context(), DeleteListingCommand{Principal: seller, Slug: pending.Slug})
	assert.ErrorIs(t, err, domain.ErrCannotDelete)

	require.NoError(t, del.Handle(t.Context(), DeleteListingCommand{Principal: admin, Slug: pending.Slug}))
	_, err = store.Listings().FindBySlug(t.Context(), pending.Slug)
	assert.ErrorIs(t, err, domain.ErrListingNotFound)

	own, err := create.Handle(t.Context(), validCreate(seller))
	require.NoError(t, err)
	assert.NoError(t, del.Handle(t.Context(), DeleteListingCommand{Principal: seller, Slug: own.Slug}))

	err = del.Handle(t.Context(), DeleteListingCommand{Principal: admin, Slug: "tidak-ada-1"})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestUpdateListing(t *testing.T) {
	store := memstore.New()
	l, err := newCreate(store, kafka.NopPublisher{}).Handle(t.Context(), validCreate(seller))
	require.NoError(t, err)
	pub := &recordingPublisher{}
	h := NewUpdateListingHandler(store.Listings(), catalogquery.NewResolver(store.Catalog()), pub).
		WithClock(func() time.Time { return time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC) })

	price := int64(175000000)
	cond := "NEW"
	got, err := h.Handle(t.Context(), UpdateListingCommand{Principal: seller, Slug: l.Slug, Price: &price, Condition: &cond})
	require.NoError(t, err)
	assert.Equal(t, price, got.Price)
	assert.Zero(t, got.Mileage)
	assert.Equal(t, domain.StatusPending, got.Status)

	require.Len(t, pub.events, 1)
	assert.Equal(t, kafka.EventTypeListingUpdated, pub.events[0].EventType)
	assert.Equal(t, l.ID, pub.events[0].ListingID)
	assert.Equal(t, price, pub.events[0].Price)
	assert.Equal(t, seller.UserID, pub.events[0].ActorID)

	// the model year bound follows the injected clock
	year := 2022
	_, err = h.Handle(t.Context(), UpdateListingCommand{Principal: seller, Slug: l.Slug, Year: &year})
	assert.Equal(t, "year", fieldOf(err))
	assert.Len(t, pub.events, 1)

	_, err = h.Handle(t.Context(), UpdateListingCommand{Principal: seller, Slug: l.Slug, Images: []string{"https://img.example.com/1.jpg"}})
	assert.Equal(t, "images", fieldOf(err))

	_, err = h.Handle(t.Context(), UpdateListingCommand{Principal: other, Slug: l.Slug, Price: &price})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	store.SetStatus(l.ID, domain.StatusSold)
	_, err = h.Handle(t.Context(), UpdateListingCommand{Principal: seller, Slug: l.Slug, Price: &price})
	assert.ErrorIs(t, err, domain.ErrSold)
}

func TestFavorites(t *testing.T) {
	store := memstore.New()
	l, err := newCreate(store, kafka.NopPublisher{}).Handle(t.Context(), validCreate(seller))
	require.NoError(t, err)
	h := NewFavoriteHandler(store.Listings(), store.Favorites())

	err = h.Add(t.Context(), FavoriteCommand{Principal: other, Slug: l.Slug})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	store.SetStatus(l.ID, domain.StatusActive)
	require.NoError(t, h.Add(t.Context(), FavoriteCommand{Principal: other, Slug: l.Slug}))
	require.NoError(t, h.Add(t.Context(), FavoriteCommand{Principal: other, Slug: l.Slug}))

	saved, err := store.Favorites().ListListings(t.Context(), other.UserID)
	require.NoError(t, err)
	assert.Len(t, saved, 1)

	require.NoError(t, h.Remove(t.Context(), FavoriteCommand{Principal: other, Slug: l.Slug}))
	ok, err := store.Favorites().IsFavorite(t.Context(), other.UserID, l.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func fieldOf(err error) string {
	if appErr, ok := apperror.As(err); ok {
		return appErr.Field
	}
	return ""
}
