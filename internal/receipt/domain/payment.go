package domain

import (
	"strings"

	"github.com/cepetdeal/marketplace/pkg/apperror"
)

// PaymentMethod is how the buyer pays
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCredit PaymentMethod = "CREDIT"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s))); m {
	case PaymentCash, PaymentCredit:
		return m, nil
	default:
		return "", apperror.Validation("paymentMethod", "paymentMethod must be CASH or CREDIT")
	}
}

// Sale is the validated input of a receipt. Nil amounts were not supplied.
type Sale struct {
	PaymentMethod string
	BuyerName     string
	BuyerAddress  string
	TandaJadi     *int64
	DownPayment   *int64
	ListingPrice  int64
}

// Amounts are the money fields of a receipt in whole rupiah
type Amounts struct {
	Method      PaymentMethod
	TandaJadi   int64
	DownPayment int64
	TotalPaid   int64
	Remaining   int64
	TotalPrice  int64
}

// ValidateSale checks a sale and returns the first failure with its field
func ValidateSale(s Sale) error {
	method, err := ParsePaymentMethod(s.PaymentMethod)
	if err != nil {
		return err
	}
	if strings.TrimSpace(s.BuyerName) == "" {
		return apperror.Validation("buyerName", "buyerName is required")
	}
	if strings.TrimSpace(s.BuyerAddress) == "" {
		return apperror.Validation("buyerAddress", "buyerAddress is required")
	}

	var dp int64
	if method == PaymentCredit {
		if s.DownPayment == nil {
			return apperror.Validation("downPayment", "downPayment is required for CREDIT")
		}
		dp = *s.DownPayment
		if dp <= 0 {
			return apperror.Validation("downPayment", "downPayment must be greater than 0")
		}
		if dp >= s.ListingPrice {
			return apperror.Validation("downPayment", "downPayment must be less than the listing price")
		}
	}

	var tj int64
	if s.TandaJadi != nil {
		tj = *s.TandaJadi
		if tj <= 0 {
			return apperror.Validation("tandaJadi", "tandaJadi must be greater than 0")
		}
	}
	// dp is already within [0, price), so the subtraction cannot overflow
	if tj > s.ListingPrice || tj > s.ListingPrice-dp {
		return apperror.Validation("tandaJadi", "tandaJadi plus downPayment cannot exceed the listing price")
	}
	return nil
}

// ComputeAmounts derives the receipt amounts from a sale that passed ValidateSale.
// A down payment only counts for CREDIT.
func ComputeAmounts(s Sale) Amounts {
	method, _ := ParsePaymentMethod(s.PaymentMethod)

	a := Amounts{Method: method, TotalPrice: s.ListingPrice}
	if s.TandaJadi != nil {
		a.TandaJadi = *s.TandaJadi
	}
	if method == PaymentCredit && s.DownPayment != nil {
		a.DownPayment = *s.DownPayment
	}
	a.TotalPaid = a.TandaJadi + a.DownPayment
	a.Remaining = s.ListingPrice - a.TotalPaid
	return a
}
