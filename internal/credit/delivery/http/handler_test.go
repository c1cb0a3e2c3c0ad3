package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cepetdeal/marketplace/internal/credit/domain"
	"github.com/cepetdeal/marketplace/pkg/httpx"
	"github.com/cepetdeal/marketplace/pkg/metrics"
)

func simulate(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := mux.NewRouter()
	NewCreditHandler(metrics.NewHTTPMetrics(prometheus.NewRegistry())).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodPost, "/credit/simulate", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSimulateEndpoint(t *testing.T) {
	rec := simulate(t, `{"price": 250000000, "downPayment": 75000000, "tenorMonths": 48, "annualRate": 4.75}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var sim domain.LoanSimulation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sim))
	assert.Equal(t, int64(175_000_000), sim.Principal)
	assert.Equal(t, int64(33_250_000), sim.TotalInterest)
	// (175.000.000 + 33.250.000) / 48 = 4.338.541,67
	assert.Equal(t, int64(4_338_542), sim.MonthlyInstallment)
	assert.Equal(t, 30.0, sim.DownPaymentPercent)
}

func TestSimulateEndpointValidation(t *testing.T) {
	rec := simulate(t, `{"price": 100000000, "downPayment": 10000000, "tenorMonths": 120, "annualRate": 5}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body httpx.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "tenorMonths", body.Field)

	rec = simulate(t, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
