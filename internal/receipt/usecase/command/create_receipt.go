package command

import (
	"context"
	"strings"
	"time"

	"github.com/cepetdeal/marketplace/internal/identity"
	listingdomain "github.com/cepetdeal/marketplace/internal/listing/domain"
	"github.com/cepetdeal/marketplace/internal/receipt/domain"
	"github.com/cepetdeal/marketplace/kafka"
	"github.com/cepetdeal/marketplace/pkg/logger"
	"github.com/cepetdeal/marketplace/pkg/metrics"
)

// CreateReceiptCommand records the sale of a listing
type CreateReceiptCommand struct {
	Principal     identity.Principal
	ListingID     uint
	BuyerName     string
	BuyerAddress  string
	BuyerPhone    string
	PaymentMethod string
	TandaJadi     *int64
	DownPayment   *int64
	Notes         string
	MarkAsSold    bool
}

// CreateReceiptHandler handles create receipt command
type CreateReceiptHandler struct {
	listings  listingdomain.ListingRepository
	receipts  domain.ReceiptRepository
	publisher kafka.EventPublisher
	metrics   *metrics.DomainMetrics
	now       func() time.Time
}

// NewCreateReceiptHandler creates a new create receipt handler
func NewCreateReceiptHandler(
	listings listingdomain.ListingRepository,
	receipts domain.ReceiptRepository,
	publisher kafka.EventPublisher,
	m *metrics.DomainMetrics,
) *CreateReceiptHandler {
	return &CreateReceiptHandler{
		listings:  listings,
		receipts:  receipts,
		publisher: publisher,
		metrics:   m,
		now:       time.Now,
	}
}

// Handle validates the sale, stores the receipt and, when asked, marks the listing
// sold in the same transaction
func (h *CreateReceiptHandler) Handle(ctx context.Context, cmd CreateReceiptCommand) (*domain.Receipt, error) {
	listing, err := h.listings.FindByID(ctx, cmd.ListingID)
	if err != nil {
		return nil, err
	}
	if !listingdomain.CanView(listing, cmd.Principal, true) {
		return nil, listingdomain.ErrListingNotFound
	}
	if !cmd.Principal.IsAdmin() && !listing.IsOwnedBy(cmd.Principal.UserID) {
		return nil, listingdomain.ErrNotOwner
	}
	if !listing.Status.IsPublic() {
		return nil, listingdomain.ErrNotActive
	}

	sale := domain.Sale{
		PaymentMethod: cmd.PaymentMethod,
		BuyerName:     cmd.BuyerName,
		BuyerAddress:  cmd.BuyerAddress,
		TandaJadi:     cmd.TandaJadi,
		DownPayment:   cmd.DownPayment,
		ListingPrice:  listing.Price,
	}
	if err := domain.ValidateSale(sale); err != nil {
		return nil, err
	}
	amounts := domain.ComputeAmounts(sale)

	receipt := &domain.Receipt{
		ReceiptNumber: domain.NewReceiptNumber(h.now()),
		ListingID:     listing.ID,
		SellerID:      listing.OwnerID,
		CreatedByID:   cmd.Principal.UserID,
		ListingTitle:  listing.Title,
		ListingSlug:   listing.Slug,
		BuyerName:     strings.TrimSpace(cmd.BuyerName),
		BuyerAddress:  strings.TrimSpace(cmd.BuyerAddress),
		BuyerPhone:    strings.TrimSpace(cmd.BuyerPhone),
		PaymentMethod: amounts.Method,
		TandaJadi:     amounts.TandaJadi,
		DownPayment:   amounts.DownPayment,
		TotalPaid:     amounts.TotalPaid,
		Remaining:     amounts.Remaining,
		TotalPrice:    amounts.TotalPrice,
		Notes:         strings.TrimSpace(cmd.Notes),
	}

	if err := h.receipts.Create(ctx, receipt, cmd.MarkAsSold); err != nil {
		return nil, err
	}
	h.metrics.ReceiptsCreated.Inc()

	logger.Info(ctx).
		Uint("receipt_id", receipt.ID).
		Str("receipt_number", receipt.ReceiptNumber).
		Uint("listing_id", listing.ID).
		Bool("marked_sold", receipt.MarkedSold).
		Msg("Receipt created")

	h.publish(ctx, receipt, listing, cmd.Principal.UserID)
	return receipt, nil
}

func (h *CreateReceiptHandler) publish(ctx context.Context, receipt *domain.Receipt, listing *listingdomain.Listing, actorID uint) {
	err := h.publisher.PublishReceiptEvent(ctx, kafka.ReceiptEvent{
		EventType:     kafka.EventTypeReceiptCreated,
		ReceiptID:     receipt.ID,
		ReceiptNumber: receipt.ReceiptNumber,
		ListingID:     receipt.ListingID,
		SellerID:      receipt.SellerID,
		PaymentMethod: string(receipt.PaymentMethod),
		TotalPrice:    receipt.TotalPrice,
		TotalPaid:     receipt.TotalPaid,
		MarkedSold:    receipt.MarkedSold,
	})
	if err != nil {
		logger.Warn(ctx).Err(err).Uint("receipt_id", receipt.ID).Msg("Failed to publish receipt event")
	}

	if !receipt.MarkedSold {
		return
	}
	err = h.publisher.PublishListingEvent(ctx, kafka.ListingEvent{
		EventType:      kafka.EventTypeListingStatusChanged,
		ListingID:      listing.ID,
		Slug:           listing.Slug,
		OwnerID:        listing.OwnerID,
		ActorID:        actorID,
		PreviousStatus: string(listingdomain.StatusActive),
		Status:         string(listingdomain.StatusSold),
		Price:          listing.Price,
	})
	if err != nil {
		logger.Warn(ctx).Err(err).Uint("listing_id", listing.ID).Msg("Failed to publish listing event")
	}
}
