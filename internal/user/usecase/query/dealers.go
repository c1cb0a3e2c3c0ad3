package query

import (
	"context"

	"github.com/cepetdeal/marketplace/internal/user/domain"
)

// GetDealerHandler returns a dealer's public profile
type GetDealerHandler struct {
	dealers domain.DealerRepository
}

func NewGetDealerHandler(dealers domain.DealerRepository) *GetDealerHandler {
	return &GetDealerHandler{dealers: dealers}
}

func (h *GetDealerHandler) Handle(ctx context.Context, dealerID uint) (*domain.Dealer, error) {
	return h.dealers.FindByID(ctx, dealerID)
}

// ByUser returns the dealer profile owned by userID
func (h *GetDealerHandler) ByUser(ctx context.Context, userID uint) (*domain.Dealer, error) {
	return h.dealers.FindByUserID(ctx, userID)
}

// ListDealersQuery lists dealers for the admin back office
type ListDealersQuery struct {
	Verified *bool
	Limit    int
	Offset   int
}

type DealerPage struct {
	Dealers []domain.Dealer `json:"dealers"`
	Total   int64           `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

type ListDealersHandler struct {
	dealers domain.DealerRepository
}

func NewListDealersHandler(dealers domain.DealerRepository) *ListDealersHandler {
	return &ListDealersHandler{dealers: dealers}
}

func (h *ListDealersHandler) Handle(ctx context.Context, q ListDealersQuery) (*DealerPage, error) {
	filter := domain.DealerFilter{Verified: q.Verified, Limit: clampLimit(q.Limit), Offset: max(q.Offset, 0)}
	dealers, total, err := h.dealers.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if dealers == nil {
		dealers = []domain.Dealer{}
	}
	return &DealerPage{Dealers: dealers, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}
