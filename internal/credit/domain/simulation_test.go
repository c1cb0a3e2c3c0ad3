package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cepetdeal/marketplace/pkg/apperror"
)

func TestSimulateFlatRate(t *testing.T) {
	sim, err := Simulate(LoanRequest{
		Price:       200_000_000,
		DownPayment: 50_000_000,
		TenorMonths: 36,
		AnnualRate:  decimal.NewFromInt(6),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(150_000_000), sim.Principal)
	assert.Equal(t, int64(27_000_000), sim.TotalInterest)
	assert.Equal(t, int64(4_916_667), sim.MonthlyInstallment)
	assert.Equal(t, int64(227_000_012), sim.TotalPayable)
	assert.Equal(t, 25.0, sim.DownPaymentPercent)
}

func TestSimulateZeroRate(t *testing.T) {
	sim, err := Simulate(LoanRequest{
		Price:       120_000_000,
		DownPayment: 0,
		TenorMonths: 12,
		AnnualRate:  decimal.Zero,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10_000_000), sim.MonthlyInstallment)
	assert.Zero(t, sim.TotalInterest)
	assert.Equal(t, int64(120_000_000), sim.TotalPayable)
}

func TestSimulateFractionalRate(t *testing.T) {
	sim, err := Simulate(LoanRequest{
		Price:       100_000_000,
		DownPayment: 30_000_000,
		TenorMonths: 24,
		AnnualRate:  decimal.RequireFromString("5.5"),
	})
	require.NoError(t, err)

	// 70.000.000 * 5.5% * 2 = 7.700.000; 77.700.000 / 24 = 3.237.500
	assert.Equal(t, int64(7_700_000), sim.TotalInterest)
	assert.Equal(t, int64(3_237_500), sim.MonthlyInstallment)
	assert.Equal(t, 5.5, sim.AnnualRate)
}

func TestSimulateValidation(t *testing.T) {
	base := LoanRequest{Price: 100, DownPayment: 10, TenorMonths: 12, AnnualRate: decimal.NewFromInt(5)}

	tests := []struct {
		name   string
		mutate func(*LoanRequest)
		field  string
	}{
		{"zero price", func(r *LoanRequest) { r.Price = 0 }, "price"},
		{"negative dp", func(r *LoanRequest) { r.DownPayment = -1 }, "downPayment"},
		{"dp equals price", func(r *LoanRequest) { r.DownPayment = 100 }, "downPayment"},
		{"tenor zero", func(r *LoanRequest) { r.TenorMonths = 0 }, "tenorMonths"},
		{"tenor too long", func(r *LoanRequest) { r.TenorMonths = 85 }, "tenorMonths"},
		{"negative rate", func(r *LoanRequest) { r.AnnualRate = decimal.NewFromInt(-1) }, "annualRate"},
		{"rate above 100", func(r *LoanRequest) { r.AnnualRate = decimal.RequireFromString("100.01") }, "annualRate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base
			tt.mutate(&r)

			_, err := Simulate(r)
			appErr, ok := apperror.As(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}
