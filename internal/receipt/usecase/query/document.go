package query

import (
	"context"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/receipt/domain"
	"github.com/cepetdeal/marketplace/internal/receipt/render"
	userdomain "github.com/cepetdeal/marketplace/internal/user/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
)

// DocumentHandler assembles everything printed on a receipt
type DocumentHandler struct {
	receipts domain.ReceiptRepository
	users    userdomain.UserRepository
	dealers  userdomain.DealerRepository
}

func NewDocumentHandler(receipts domain.ReceiptRepository, users userdomain.UserRepository, dealers userdomain.DealerRepository) *DocumentHandler {
	return &DocumentHandler{receipts: receipts, users: users, dealers: dealers}
}

func (h *DocumentHandler) Handle(ctx context.Context, id uint, p identity.Principal) (*render.Document, error) {
	receipt, err := h.receipts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(receipt, p); err != nil {
		return nil, err
	}

	seller, err := h.users.FindByID(ctx, receipt.SellerID)
	if err != nil {
		return nil, err
	}

	dealer, err := h.dealers.FindByUserID(ctx, receipt.SellerID)
	if err != nil {
		if apperror.KindOf(err) != apperror.KindNotFound {
			return nil, err
		}
		dealer = nil
	}

	return &render.Document{Receipt: receipt, Seller: seller, Dealer: dealer}, nil
}
