// Package domain holds the flat-rate car loan arithmetic used by Indonesian
// leasing companies.
package domain

import (
	"github.com/shopspring/decimal"

	"github.com/cepetdeal/marketplace/pkg/apperror"
)

const (
	MinTenorMonths = 1
	MaxTenorMonths = 84
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// LoanRequest is the input of a simulation. Amounts are whole rupiah; AnnualRate
// is a percentage.
type LoanRequest struct {
	Price       int64
	DownPayment int64
	TenorMonths int
	AnnualRate  decimal.Decimal
}

// LoanSimulation is the result of a simulation
type LoanSimulation struct {
	Price              int64   `json:"price"`
	DownPayment        int64   `json:"downPayment"`
	DownPaymentPercent float64 `json:"downPaymentPercent"`
	Principal          int64   `json:"principal"`
	TenorMonths        int     `json:"tenorMonths"`
	AnnualRate         float64 `json:"annualRate"`
	TotalInterest      int64   `json:"totalInterest"`
	MonthlyInstallment int64   `json:"monthlyInstallment"`
	TotalPayable       int64   `json:"totalPayable"`
}

// Validate returns the first invalid field of the request
func (r LoanRequest) Validate() error {
	switch {
	case r.Price <= 0:
		return apperror.Validation("price", "price must be greater than 0")
	case r.DownPayment < 0:
		return apperror.Validation("downPayment", "downPayment cannot be negative")
	case r.DownPayment >= r.Price:
		return apperror.Validation("downPayment", "downPayment must be less than price")
	case r.TenorMonths < MinTenorMonths || r.TenorMonths > MaxTenorMonths:
		return apperror.Validation("tenorMonths", "tenorMonths must be between 1 and 84")
	case r.AnnualRate.IsNegative() || r.AnnualRate.GreaterThan(hundred):
		return apperror.Validation("annualRate", "annualRate must be between 0 and 100")
	}
	return nil
}

// Simulate computes a flat-rate loan:
//
//	principal = price - downPayment
//	interest  = principal * rate/100 * tenor/12
//	monthly   = ceil((principal + interest) / tenor)
func Simulate(r LoanRequest) (*LoanSimulation, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	price := decimal.NewFromInt(r.Price)
	dp := decimal.NewFromInt(r.DownPayment)
	tenor := decimal.NewFromInt(int64(r.TenorMonths))
	principal := price.Sub(dp)

	interest := principal.Mul(r.AnnualRate).Div(hundred).Mul(tenor).Div(twelve)
	monthly := principal.Add(interest).Div(tenor).Ceil()

	return &LoanSimulation{
		Price:              r.Price,
		DownPayment:        r.DownPayment,
		DownPaymentPercent: dp.Mul(hundred).Div(price).Round(2).InexactFloat64(),
		Principal:          principal.IntPart(),
		TenorMonths:        r.TenorMonths,
		AnnualRate:         r.AnnualRate.InexactFloat64(),
		TotalInterest:      interest.Round(0).IntPart(),
		MonthlyInstallment: monthly.IntPart(),
		TotalPayable:       dp.Add(monthly.Mul(tenor)).IntPart(),
	}, nil
}
