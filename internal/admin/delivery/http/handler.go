package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cepetdeal/marketplace/internal/admin/usecase/query"
	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/pkg/httpx"
	"github.com/cepetdeal/marketplace/pkg/metrics"
)

// AdminHandler serves the admin dashboard
type AdminHandler struct {
	stats   *query.StatsHandler
	authn   *identity.Authenticator
	metrics *metrics.HTTPMetrics
}

func NewAdminHandler(stats *query.StatsHandler, authn *identity.Authenticator, m *metrics.HTTPMetrics) *AdminHandler {
	return &AdminHandler{stats: stats, authn: authn, metrics: m}
}

// Stats godoc
// @Summary Dashboard statistics
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} query.DashboardStats
// @Failure 403 {object} httpx.ErrorResponse
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Handle(r.Context())
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, stats)
}

// RegisterRoutes registers the admin dashboard routes
func (h *AdminHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/admin/stats", h.metrics.Wrap("/admin/stats", h.authn.Admin(h.Stats))).Methods("GET")
}
