package domain

import (
	"math"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cepetdeal/marketplace/pkg/apperror"
)

func amount(v int64) *int64 { return &v }

func TestComputeAmountsCreditWithTandaJadi(t *testing.T) {
	sale := Sale{
		PaymentMethod: "CREDIT",
		BuyerName:     "Andi",
		BuyerAddress:  "Jl. Sudirman 1, Jakarta",
		DownPayment:   amount(100_000_000),
		TandaJadi:     amount(5_000_000),
		ListingPrice:  300_000_000,
	}
	require.NoError(t, ValidateSale(sale))

	a := ComputeAmounts(sale)
	assert.Equal(t, int64(105_000_000), a.TotalPaid)
	assert.Equal(t, int64(195_000_000), a.Remaining)
	assert.Equal(t, int64(300_000_000), a.TotalPrice)
	assert.Equal(t, a.TotalPrice-a.TotalPaid, a.Remaining)
}

func TestComputeAmountsCashIgnoresDownPayment(t *testing.T) {
	sale := Sale{
		PaymentMethod: "cash",
		BuyerName:     "Andi",
		BuyerAddress:  "Bandung",
		DownPayment:   amount(50_000_000),
		ListingPrice:  120_000_000,
	}
	require.NoError(t, ValidateSale(sale))

	a := ComputeAmounts(sale)
	assert.Equal(t, PaymentCash, a.Method)
	assert.Zero(t, a.DownPayment)
	assert.Zero(t, a.TotalPaid)
	assert.Equal(t, int64(120_000_000), a.Remaining)
}

func TestValidateSale(t *testing.T) {
	base := func() Sale {
		return Sale{
			PaymentMethod: "CREDIT",
			BuyerName:     "Andi",
			BuyerAddress:  "Jakarta",
			DownPayment:   amount(50_000_000),
			ListingPrice:  200_000_000,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Sale)
		field  string
	}{
		{"unknown method", func(s *Sale) { s.PaymentMethod = "TRANSFER" }, "paymentMethod"},
		{"missing buyer", func(s *Sale) { s.BuyerName = " " }, "buyerName"},
		{"missing address", func(s *Sale) { s.BuyerAddress = "" }, "buyerAddress"},
		{"credit without dp", func(s *Sale) { s.DownPayment = nil }, "downPayment"},
		{"dp zero", func(s *Sale) { s.DownPayment = amount(0) }, "downPayment"},
		{"dp equals price", func(s *Sale) { s.DownPayment = amount(200_000_000) }, "downPayment"},
		{"dp above price", func(s *Sale) { s.DownPayment = amount(250_000_000) }, "downPayment"},
		{"negative tanda jadi", func(s *Sale) { s.TandaJadi = amount(-1) }, "tandaJadi"},
		{"tanda jadi plus dp over price", func(s *Sale) { s.TandaJadi = amount(150_000_001) }, "tandaJadi"},
		{"tanda jadi near int64 max", func(s *Sale) { s.TandaJadi = amount(math.MaxInt64) }, "tandaJadi"},
		{"cash tanda jadi over price", func(s *Sale) {
			s.PaymentMethod = "CASH"
			s.DownPayment = nil
			s.TandaJadi = amount(200_000_001)
		}, "tandaJadi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(&s)

			appErr, ok := apperror.As(ValidateSale(s))
			require.True(t, ok)
			assert.Equal(t, apperror.KindValidation, appErr.Kind)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}

func TestNewReceiptNumber(t *testing.T) {
	at := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	n := NewReceiptNumber(at)

	assert.Regexp(t, regexp.MustCompile(`^CD-20260307-[0-9A-F]{8}$`), n)
	assert.NotEqual(t, n, NewReceiptNumber(at))
}
