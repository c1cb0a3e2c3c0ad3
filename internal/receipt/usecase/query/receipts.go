package query

import (
	"context"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/receipt/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
)

var ErrNotReceiptOwner = apperror.Forbidden("NOT_RECEIPT_OWNER", "Only the seller or an admin can view this receipt")

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ReceiptPage is a page of receipts
type ReceiptPage struct {
	Receipts []domain.Receipt `json:"receipts"`
	Total    int64            `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

func authorize(r *domain.Receipt, p identity.Principal) error {
	if p.IsAdmin() || r.SellerID == p.UserID {
		return nil
	}
	return ErrNotReceiptOwner
}

// GetReceiptHandler reads one receipt for its seller or an admin
type GetReceiptHandler struct {
	receipts domain.ReceiptRepository
}

func NewGetReceiptHandler(receipts domain.ReceiptRepository) *GetReceiptHandler {
	return &GetReceiptHandler{receipts: receipts}
}

func (h *GetReceiptHandler) Handle(ctx context.Context, id uint, p identity.Principal) (*domain.Receipt, error) {
	receipt, err := h.receipts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(receipt, p); err != nil {
		return nil, err
	}
	return receipt, nil
}

// ListReceiptsHandler lists the caller's receipts, or every receipt for admins
type ListReceiptsHandler struct {
	receipts domain.ReceiptRepository
}

func NewListReceiptsHandler(receipts domain.ReceiptRepository) *ListReceiptsHandler {
	return &ListReceiptsHandler{receipts: receipts}
}

func (h *ListReceiptsHandler) Handle(ctx context.Context, p identity.Principal, limit, offset int) (*ReceiptPage, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	filter := domain.ReceiptFilter{Limit: min(limit, maxLimit), Offset: max(offset, 0)}
	if !p.IsAdmin() {
		filter.SellerID = p.UserID
	}

	receipts, total, err := h.receipts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if receipts == nil {
		receipts = []domain.Receipt{}
	}
	return &ReceiptPage{Receipts: receipts, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}
