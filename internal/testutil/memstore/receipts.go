package memstore

import (
	"context"
	"sort"

	listingdomain "github.com/cepetdeal/marketplace/internal/listing/domain"
	"github.com/cepetdeal/marketplace/internal/receipt/domain"
)

// ReceiptRepo implements domain.ReceiptRepository
type ReceiptRepo struct{ s *Store }

func (s *Store) Receipts() *ReceiptRepo { return &ReceiptRepo{s: s} }

func (r *ReceiptRepo) Create(_ context.Context, receipt *domain.Receipt, markSold bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if markSold {
		if !r.s.transition(receipt.ListingID, listingdomain.StatusActive, listingdomain.StatusSold) {
			return listingdomain.ErrNotActive
		}
		receipt.MarkedSold = true
	}
	receipt.ID = r.s.id("receipts")
	receipt.CreatedAt = r.s.Now()
	r.s.receipts[receipt.ID] = *receipt
	return nil
}

func (r *ReceiptRepo) FindByID(_ context.Context, id uint) (*domain.Receipt, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rc, ok := r.s.receipts[id]
	if !ok {
		return nil, domain.ErrReceiptNotFound
	}
	return &rc, nil
}

func (r *ReceiptRepo) List(_ context.Context, filter domain.ReceiptFilter) ([]domain.Receipt, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []domain.Receipt{}
	for _, rc := range r.s.receipts {
		if filter.SellerID == 0 || rc.SellerID == filter.SellerID {
			out = append(out, rc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, filter.Limit, filter.Offset), int64(len(out)), nil
}

func (r *ReceiptRepo) Totals(_ context.Context) (domain.ReceiptTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var t domain.ReceiptTotals
	for _, rc := range r.s.receipts {
		t.Count++
		t.Revenue += rc.TotalPrice
	}
	return t, nil
}
