package command

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cepetdeal/marketplace/internal/identity"
	listingdomain "github.com/cepetdeal/marketplace/internal/listing/domain"
	"github.com/cepetdeal/marketplace/internal/receipt/domain"
	"github.com/cepetdeal/marketplace/internal/testutil/memstore"
	"github.com/cepetdeal/marketplace/kafka"
	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/metrics"
)

func amount(v int64) *int64 { return &v }

func seedListing(t *testing.T, store *memstore.Store, ownerID uint, status listingdomain.Status, price int64) *listingdomain.Listing {
	t.Helper()
	brand := store.SeedCatalog("Mitsubishi", "Pajero Sport")
	l := &listingdomain.Listing{
		Title:     "Pajero Sport Dakar 2021",
		Slug:      "pajero-sport-dakar-2021-1",
		BrandID:   brand.ID,
		ModelID:   1,
		Year:      2021,
		Condition: listingdomain.ConditionUsed,
		Price:     price,
		Status:    status,
		OwnerID:   ownerID,
	}
	require.NoError(t, store.Listings().Create(t.Context(), l))
	return l
}

func newHandler(store *memstore.Store) (*CreateReceiptHandler, *metrics.DomainMetrics) {
	m := metrics.NewDomainMetrics(prometheus.NewRegistry())
	return NewCreateReceiptHandler(store.Listings(), store.Receipts(), kafka.NopPublisher{}, m), m
}

func TestCreateReceiptAndMarkSold(t *testing.T) {
	store := memstore.New()
	seller := store.SeedUser("penjual", identity.RoleSeller)
	l := seedListing(t, store, seller.ID, listingdomain.StatusActive, 300_000_000)
	h, m := newHandler(store)

	receipt, err := h.Handle(t.Context(), CreateReceiptCommand{
		Principal:     seller.Principal(),
		ListingID:     l.ID,
		BuyerName:     "Andi Wijaya",
		BuyerAddress:  "Jl. Gatot Subroto 5, Jakarta",
		PaymentMethod: "CREDIT",
		DownPayment:   amount(100_000_000),
		TandaJadi:     amount(5_000_000),
		MarkAsSold:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(105_000_000), receipt.TotalPaid)
	assert.Equal(t, int64(195_000_000), receipt.Remaining)
	assert.Equal(t, int64(300_000_000), receipt.TotalPrice)
	assert.True(t, receipt.MarkedSold)
	assert.Equal(t, seller.ID, receipt.SellerID)
	assert.Equal(t, l.Title, receipt.ListingTitle)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReceiptsCreated))

	got, err := store.Listings().FindByID(t.Context(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, listingdomain.StatusSold, got.Status)
}

func TestCreateReceiptRollsBackWhenListingNotActive(t *testing.T) {
	store := memstore.New()
	seller := store.SeedUser("penjual", identity.RoleSeller)
	l := seedListing(t, store, seller.ID, listingdomain.StatusSold, 300_000_000)
	h, _ := newHandler(store)

	_, err := h.Handle(t.Context(), CreateReceiptCommand{
		Principal:     seller.Principal(),
		ListingID:     l.ID,
		BuyerName:     "Andi",
		BuyerAddress:  "Jakarta",
		PaymentMethod: "CASH",
		MarkAsSold:    true,
	})
	assert.ErrorIs(t, err, listingdomain.ErrNotActive)

	_, total, err := store.Receipts().List(t.Context(), domain.ReceiptFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCreateReceiptPermissions(t *testing.T) {
	store := memstore.New()
	seller := store.SeedUser("penjual", identity.RoleSeller)
	buyer := store.SeedUser("pembeli", identity.RoleBuyer)
	admin := store.SeedUser("admin", identity.RoleAdmin)
	l := seedListing(t, store, seller.ID, listingdomain.StatusActive, 100_000_000)
	pending := seedListing(t, store, seller.ID, listingdomain.StatusPending, 100_000_000)
	h, _ := newHandler(store)

	cmd := CreateReceiptCommand{
		ListingID:     l.ID,
		BuyerName:     "Andi",
		BuyerAddress:  "Jakarta",
		PaymentMethod: "CASH",
	}

	cmd.Principal = buyer.Principal()
	_, err := h.Handle(t.Context(), cmd)
	assert.ErrorIs(t, err, listingdomain.ErrNotOwner)

	cmd.Principal = admin.Principal()
	_, err = h.Handle(t.Context(), cmd)
	assert.NoError(t, err)

	cmd.ListingID = pending.ID
	cmd.Principal = seller.Principal()
	_, err = h.Handle(t.Context(), cmd)
	assert.ErrorIs(t, err, listingdomain.ErrNotActive)

	cmd.Principal = buyer.Principal()
	_, err = h.Handle(t.Context(), cmd)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestCreateReceiptCreditDownPaymentAtPriceFails(t *testing.T) {
	store := memstore.New()
	seller := store.SeedUser("penjual", identity.RoleSeller)
	l := seedListing(t, store, seller.ID, listingdomain.StatusActive, 150_000_000)
	h, _ := newHandler(store)

	_, err := h.Handle(t.Context(), CreateReceiptCommand{
		Principal:     seller.Principal(),
		ListingID:     l.ID,
		BuyerName:     "Andi",
		BuyerAddress:  "Jakarta",
		PaymentMethod: "CREDIT",
		DownPayment:   amount(150_000_000),
		MarkAsSold:    true,
	})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "downPayment", appErr.Field)

	got, err := store.Listings().FindByID(t.Context(), l.ID)
	require.NoError(t, err)
	assert.Equal(t, listingdomain.StatusActive, got.Status)
}
