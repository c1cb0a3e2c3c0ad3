package http

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/listing/usecase/command"
	"github.com/cepetdeal/marketplace/internal/listing/usecase/query"
	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/httpx"
	"github.com/cepetdeal/marketplace/pkg/metrics"
)

// ListingHandler handles HTTP requests for listings and favorites
type ListingHandler struct {
	commands command.Handlers
	queries  query.Handlers
	authn    *identity.Authenticator
	metrics  *metrics.HTTPMetrics
}

// NewListingHandler creates a new listing handler
func NewListingHandler(commands command.Handlers, queries query.Handlers, authn *identity.Authenticator, m *metrics.HTTPMetrics) *ListingHandler {
	return &ListingHandler{
		commands: commands,
		queries:  queries,
		authn:    authn,
		metrics:  m,
	}
}

type createListingRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Brand        string   `json:"brand"`
	Model        string   `json:"model"`
	Year         int      `json:"year"`
	Condition    string   `json:"condition"`
	Mileage      int      `json:"mileage"`
	Price        int64    `json:"price"`
	Transmission string   `json:"transmission"`
	FuelType     string   `json:"fuelType"`
	Color        string   `json:"color"`
	Location     string   `json:"location"`
	Images       []string `json:"images"`
}

type updateListingRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Brand        *string  `json:"brand"`
	Model        *string  `json:"model"`
	Year         *int     `json:"year"`
	Condition    *string  `json:"condition"`
	Mileage      *int     `json:"mileage"`
	Price        *int64   `json:"price"`
	Transmission *string  `json:"transmission"`
	FuelType     *string  `json:"fuelType"`
	Color        *string  `json:"color"`
	Location     *string  `json:"location"`
	Images       []string `json:"images"`
}

type statusRequest struct {
	ID     uint   `json:"id"`
	Action string `json:"action"`
}

// CreateListing godoc
// @Summary Create a car listing
// @Description Listings created by non-admins start PENDING until an admin approves them
// @Tags Listings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body createListingRequest true "Listing data"
// @Success 201 {object} domain.Listing
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /listings [post]
func (h *ListingHandler) CreateListing(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())

	var req createListingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	listing, err := h.commands.Create.Handle(r.Context(), command.CreateListingCommand{
		Principal:    p,
		Title:        req.Title,
		Description:  req.Description,
		Brand:        req.Brand,
		Model:        req.Model,
		Year:         req.Year,
		Condition:    req.Condition,
		Mileage:      req.Mileage,
		Price:        req.Price,
		Transmission: req.Transmission,
		FuelType:     req.FuelType,
		Color:        req.Color,
		Location:     req.Location,
		Images:       req.Images,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusCreated, listing)
}

// GetListing godoc
// @Summary Listing detail
// @Tags Listings
// @Produce json
// @Param slug path string true "Listing slug"
// @Success 200 {object} domain.Listing
// @Failure 404 {object} httpx.ErrorResponse
// @Router /listings/{slug} [get]
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	p, authenticated := identity.FromContext(r.Context())

	listing, err := h.queries.Get.Handle(r.Context(), query.GetListingQuery{
		Slug:          mux.Vars(r)["slug"],
		Principal:     p,
		Authenticated: authenticated,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, listing)
}

// UpdateListing godoc
// @Summary Edit a listing
// @Tags Listings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "Listing slug"
// @Param request body updateListingRequest true "Fields to change"
// @Success 200 {object} domain.Listing
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Router /listings/{slug} [patch]
func (h *ListingHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())

	var req updateListingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	listing, err := h.commands.Update.Handle(r.Context(), command.UpdateListingCommand{
		Principal:    p,
		Slug:         mux.Vars(r)["slug"],
		Title:        req.Title,
		Description:  req.Description,
		Brand:        req.Brand,
		Model:        req.Model,
		Year:         req.Year,
		Condition:    req.Condition,
		Mileage:      req.Mileage,
		Price:        req.Price,
		Transmission: req.Transmission,
		FuelType:     req.FuelType,
		Color:        req.Color,
		Location:     req.Location,
		Images:       req.Images,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, listing)
}

// DeleteListing godoc
// @Summary Delete a listing
// @Description Admins may delete any listing, owners only while it is PENDING
// @Tags Listings
// @Security BearerAuth
// @Produce json
// @Param slug path string true "Listing slug"
// @Success 200 {object} httpx.MessageResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /listings/{slug} [delete]
func (h *ListingHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())

	err := h.commands.Delete.Handle(r.Context(), command.DeleteListingCommand{
		Principal: p,
		Slug:      mux.Vars(r)["slug"],
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.MessageResponse{Message: "Listing deleted successfully"})
}

// UpdateStatus godoc
// @Summary Apply a status action to a listing
// @Tags Listings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body statusRequest true "Listing ID and action (mark_sold or mark_active)"
// @Success 200 {object} domain.Listing
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /listings [put]
func (h *ListingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())

	var req statusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	if req.ID == 0 {
		httpx.RespondError(w, r, apperror.Validation("id", "id is required"))
		return
	}

	listing, err := h.commands.UpdateStatus.Handle(r.Context(), command.UpdateStatusCommand{
		Principal: p,
		ListingID: req.ID,
		Action:    req.Action,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, listing)
}

// BrowseListings godoc
// @Summary Browse public listings
// @Tags Listings
// @Produce json
// @Param brand query string false "Brand name"
// @Param model query string false "Model name"
// @Param condition query string false "NEW or USED"
// @Param status query string false "ACTIVE (default) or SOLD"
// @Param minPrice query int false "Minimum price"
// @Param maxPrice query int false "Maximum price"
// @Param minYear query int false "Minimum year"
// @Param maxYear query int false "Maximum year"
// @Param q query string false "Text search"
// @Param sort query string false "newest, price_asc, price_desc, year_desc or most_viewed"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} query.ListingPage
// @Router /listings [get]
func (h *ListingHandler) BrowseListings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := h.queries.Search.Browse(r.Context(), query.BrowseQuery{
		Brand:     q.Get("brand"),
		Model:     q.Get("model"),
		Condition: q.Get("condition"),
		Status:    q.Get("status"),
		MinPrice:  int64(httpx.QueryInt(r, "minPrice", 0)),
		MaxPrice:  int64(httpx.QueryInt(r, "maxPrice", 0)),
		MinYear:   httpx.QueryInt(r, "minYear", 0),
		MaxYear:   httpx.QueryInt(r, "maxYear", 0),
		Query:     q.Get("q"),
		Sort:      q.Get("sort"),
		Limit:     httpx.QueryInt(r, "limit", 0),
		Offset:    httpx.QueryInt(r, "offset", 0),
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, page)
}

// MyListings godoc
// @Summary Listings owned by the current user
// @Tags Listings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} query.ListingPage
// @Router /listings/mine [get]
func (h *ListingHandler) MyListings(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())

	page, err := h.queries.Search.Mine(r.Context(), p.UserID, httpx.QueryInt(r, "limit", 0), httpx.QueryInt(r, "offset", 0))
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, page)
}

// CompareListings godoc
// @Summary Compare 2 to 4 listings
// @Tags Listings
// @Produce json
// @Param slugs query string true "Comma separated slugs"
// @Success 200 {array} domain.Listing
// @Failure 400 {object} httpx.ErrorResponse
// @Router /listings/compare [get]
func (h *ListingHandler) CompareListings(w http.ResponseWriter, r *http.Request) {
	listings, err := h.queries.Compare.Handle(r.Context(), strings.Split(r.URL.Query().Get("slugs"), ","))
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, listings)
}

// AddFavorite godoc
// @Summary Save a listing
// @Tags Favorites
// @Security BearerAuth
// @Produce json
// @Param slug path string true "Listing slug"
// @Success 200 {object} httpx.MessageResponse
// @Router /listings/{slug}/favorite [post]
func (h *ListingHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())

	if err := h.commands.Favorite.Add(r.Context(), command.FavoriteCommand{Principal: p, Slug: mux.Vars(r)["slug"]}); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.MessageResponse{Message: "Listing saved"})
}

// RemoveFavorite godoc
// @Summary Unsave a listing
// @Tags Favorites
// @Security BearerAuth
// @Produce json
// @Param slug path string true "Listing slug"
// @Success 200 {object} httpx.MessageResponse
// @Router /listings/{slug}/favorite [delete]
func (h *ListingHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())

	if err := h.commands.Favorite.Remove(r.Context(), command.FavoriteCommand{Principal: p, Slug: mux.Vars(r)["slug"]}); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.MessageResponse{Message: "Listing removed from favorites"})
}

// MyFavorites godoc
// @Summary Listings saved by the current user
// @Tags Favorites
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.Listing
// @Router /users/me/favorites [get]
func (h *ListingHandler) MyFavorites(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())

	listings, err := h.queries.Favorites.Handle(r.Context(), p.UserID)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, listings)
}

// AdminQueue godoc
// @Summary Moderation queue
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param status query string false "PENDING (default), ACTIVE or SOLD"
// @Success 200 {object} query.ListingPage
// @Router /admin/listings [get]
func (h *ListingHandler) AdminQueue(w http.ResponseWriter, r *http.Request) {
	page, err := h.queries.Search.AdminQueue(r.Context(), r.URL.Query().Get("status"), httpx.QueryInt(r, "limit", 0), httpx.QueryInt(r, "offset", 0))
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, page)
}

// RegisterRoutes registers all listing routes. Fixed paths come before {slug}.
func (h *ListingHandler) RegisterRoutes(router *mux.Router) {
	m := h.metrics.Wrap

	router.HandleFunc("/listings", m("/listings", h.BrowseListings)).Methods("GET")
	router.HandleFunc("/listings", m("/listings", h.authn.Required(h.CreateListing))).Methods("POST")
	router.HandleFunc("/listings", m("/listings", h.authn.Required(h.UpdateStatus))).Methods("PUT")
	router.HandleFunc("/listings/mine", m("/listings/mine", h.authn.Required(h.MyListings))).Methods("GET")
	router.HandleFunc("/listings/compare", m("/listings/compare", h.CompareListings)).Methods("GET")

	router.HandleFunc("/listings/{slug}", m("/listings/{slug}", h.authn.Optional(h.GetListing))).Methods("GET")
	router.HandleFunc("/listings/{slug}", m("/listings/{slug}", h.authn.Required(h.UpdateListing))).Methods("PATCH")
	router.HandleFunc("/listings/{slug}", m("/listings/{slug}", h.authn.Required(h.DeleteListing))).Methods("DELETE")
	router.HandleFunc("/listings/{slug}/favorite", m("/listings/{slug}/favorite", h.authn.Required(h.AddFavorite))).Methods("POST")
	router.HandleFunc("/listings/{slug}/favorite", m("/listings/{slug}/favorite", h.authn.Required(h.RemoveFavorite))).Methods("DELETE")

	router.HandleFunc("/users/me/favorites", m("/users/me/favorites", h.authn.Required(h.MyFavorites))).Methods("GET")
	router.HandleFunc("/admin/listings", m("/admin/listings", h.authn.Admin(h.AdminQueue))).Methods("GET")
}
