package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/cepetdeal/marketplace/internal/credit/domain"
	"github.com/cepetdeal/marketplace/pkg/httpx"
	"github.com/cepetdeal/marketplace/pkg/metrics"
)

// CreditHandler serves the loan calculator
type CreditHandler struct {
	metrics *metrics.HTTPMetrics
}

func NewCreditHandler(m *metrics.HTTPMetrics) *CreditHandler {
	return &CreditHandler{metrics: m}
}

type simulateRequest struct {
	Price       int64           `json:"price"`
	DownPayment int64           `json:"downPayment"`
	TenorMonths int             `json:"tenorMonths"`
	AnnualRate  decimal.Decimal `json:"annualRate" swaggertype:"number"`
}

// Simulate godoc
// @Summary Simulate a flat-rate car loan
// @Tags Credit
// @Accept json
// @Produce json
// @Param request body simulateRequest true "Loan parameters"
// @Success 200 {object} domain.LoanSimulation
// @Failure 400 {object} httpx.ErrorResponse
// @Router /credit/simulate [post]
func (h *CreditHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	sim, err := domain.Simulate(domain.LoanRequest{
		Price:       req.Price,
		DownPayment: req.DownPayment,
		TenorMonths: req.TenorMonths,
		AnnualRate:  req.AnnualRate,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, sim)
}

// RegisterRoutes registers the credit routes
func (h *CreditHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/credit/simulate", h.metrics.Wrap("/credit/simulate", h.Simulate)).Methods("POST")
}
