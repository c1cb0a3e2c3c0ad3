package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cepetdeal/marketplace/internal/catalog/usecase/command"
	"github.com/cepetdeal/marketplace/internal/catalog/usecase/query"
	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/pkg/httpx"
	"github.com/cepetdeal/marketplace/pkg/metrics"
)

// CatalogHandler handles HTTP requests for brands and models
type CatalogHandler struct {
	createBrand *command.CreateBrandHandler
	createModel *command.CreateModelHandler
	listBrands  *query.ListBrandsHandler
	listModels  *query.ListModelsHandler
	authn       *identity.Authenticator
	metrics     *metrics.HTTPMetrics
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(
	createBrand *command.CreateBrandHandler,
	createModel *command.CreateModelHandler,
	listBrands *query.ListBrandsHandler,
	listModels *query.ListModelsHandler,
	authn *identity.Authenticator,
	m *metrics.HTTPMetrics,
) *CatalogHandler {
	return &CatalogHandler{
		createBrand: createBrand,
		createModel: createModel,
		listBrands:  listBrands,
		listModels:  listModels,
		authn:       authn,
		metrics:     m,
	}
}

// ListBrands godoc
// @Summary List brands
// @Tags Catalog
// @Produce json
// @Success 200 {array} domain.Brand
// @Router /brands [get]
func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.listBrands.Handle(r.Context())
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, brands)
}

// ListModels godoc
// @Summary List models of a brand
// @Tags Catalog
// @Produce json
// @Param id path int true "Brand ID"
// @Success 200 {array} domain.CarModel
// @Failure 404 {object} httpx.ErrorResponse
// @Router /brands/{id}/models [get]
func (h *CatalogHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUint(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	models, err := h.listModels.Handle(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusOK, models)
}

// CreateBrand godoc
// @Summary Add a brand
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string} true "Brand"
// @Success 201 {object} domain.Brand
// @Failure 409 {object} httpx.ErrorResponse
// @Router /admin/brands [post]
func (h *CatalogHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	brand, err := h.createBrand.Handle(r.Context(), command.CreateBrandCommand{Name: req.Name})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, brand)
}

// CreateModel godoc
// @Summary Add a model to a brand
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Brand ID"
// @Param request body object{name=string} true "Model"
// @Success 201 {object} domain.CarModel
// @Router /admin/brands/{id}/models [post]
func (h *CatalogHandler) CreateModel(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUint(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	model, err := h.createModel.Handle(r.Context(), command.CreateModelCommand{BrandID: id, Name: req.Name})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	httpx.RespondJSON(w, http.StatusCreated, model)
}

// RegisterRoutes registers catalog routes
func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	m := h.metrics.Wrap

	router.HandleFunc("/brands", m("/brands", h.ListBrands)).Methods("GET")
	router.HandleFunc("/brands/{id}/models", m("/brands/{id}/models", h.ListModels)).Methods("GET")

	router.HandleFunc("/admin/brands", m("/admin/brands", h.authn.Admin(h.CreateBrand))).Methods("POST")
	router.HandleFunc("/admin/brands/{id}/models", m("/admin/brands/{id}/models", h.authn.Admin(h.CreateModel))).Methods("POST")
}
