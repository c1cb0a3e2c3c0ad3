package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/user/usecase/command"
	"github.com/cepetdeal/marketplace/internal/user/usecase/query"
	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/httpx"
	"github.com/cepetdeal/marketplace/pkg/metrics"
)

// UserHandler handles HTTP requests for accounts and dealers
type UserHandler struct {
	commands command.Handlers
	queries  query.Handlers
	authn    *identity.Authenticator
	metrics  *metrics.HTTPMetrics
}

// NewUserHandler creates a new user handler
func NewUserHandler(commands command.Handlers, queries query.Handlers, authn *identity.Authenticator, m *metrics.HTTPMetrics) *UserHandler {
	return &UserHandler{
		commands: commands,
		queries:  queries,
		authn:    authn,
		metrics:  m,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	Role     string `json:"role"`
}

// Register godoc
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "Account data (role SELLER or BUYER)"
// @Success 201 {object} domain.User
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /auth/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	user, err := h.commands.Register.Handle(r.Context(), command.RegisterUserCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
		City:     req.City,
		Role:     req.Role,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in and obtain a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Credentials"
// @Success 200 {object} command.LoginResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Router /auth/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	resp, err := h.commands.Login.Handle(r.Context(), command.LoginUserCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, resp)
}

// GetProfile godoc
// @Summary Current user's profile
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} httpx.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())

	user, err := h.queries.GetUser.Handle(r.Context(), query.GetUserQuery{ID: p.UserID})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update the current user's profile
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{fullName=string,phone=string,city=string,email=string,password=string} true "Fields to change"
// @Success 200 {object} domain.User
// @Failure 400 {object} httpx.ErrorResponse
// @Router /users/me [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())

	var req struct {
		FullName *string `json:"fullName"`
		Phone    *string `json:"phone"`
		City     *string `json:"city"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	user, err := h.commands.UpdateProfile.Handle(r.Context(), command.UpdateProfileCommand{
		UserID:   p.UserID,
		FullName: req.FullName,
		Phone:    req.Phone,
		City:     req.City,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, user)
}

// ChangeUsername godoc
// @Summary Change username (once every 30 days)
// @Tags Users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{username=string} true "New username"
// @Success 200 {object} domain.User
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 429 {object} httpx.ErrorResponse
// @Router /users/me/username [put]
func (h *UserHandler) ChangeUsername(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())

	var req struct {
		Username string `json:"username"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	user, err := h.commands.ChangeUsername.Handle(r.Context(), command.ChangeUsernameCommand{
		UserID:   p.UserID,
		Username: req.Username,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, user)
}

// --- ADMIN ENDPOINTS ---

// ListUsers godoc
// @Summary List users
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param role query string false "ADMIN, DEALER, SELLER or BUYER"
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} query.UserPage
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := h.queries.ListUsers.Handle(r.Context(), query.ListUsersQuery{
		Role:   r.URL.Query().Get("role"),
		Limit:  httpx.QueryInt(r, "limit", 0),
		Offset: httpx.QueryInt(r, "offset", 0),
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, page)
}

// ChangeRole godoc
// @Summary Change a user's role
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body object{role=string} true "New role"
// @Success 200 {object} domain.User
// @Router /admin/users/{id}/role [put]
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())
	id, err := httpx.PathUint(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	user, err := h.commands.ChangeRole.Handle(r.Context(), command.ChangeRoleCommand{
		ActorID: p.UserID,
		UserID:  id,
		Role:    req.Role,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, user)
}

// ToggleActive godoc
// @Summary Activate or deactivate a user
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body object{isActive=bool} true "Active flag"
// @Success 200 {object} domain.User
// @Router /admin/users/{id}/active [put]
func (h *UserHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())
	id, err := httpx.PathUint(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	var req struct {
		IsActive *bool `json:"isActive"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	if req.IsActive == nil {
		httpx.RespondError(w, r, apperror.Validation("isActive", "isActive is required"))
		return
	}

	user, err := h.commands.ToggleActive.Handle(r.Context(), command.ToggleActiveCommand{
		ActorID:  p.UserID,
		UserID:   id,
		IsActive: *req.IsActive,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, user)
}

// RegisterRoutes registers all user and dealer routes
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	m := h.metrics.Wrap

	// Public routes
	router.HandleFunc("/auth/register", m("/auth/register", h.Register)).Methods("POST")
	router.HandleFunc("/auth/login", m("/auth/login", h.Login)).Methods("POST")
	router.HandleFunc("/dealers/{id:[0-9]+}", m("/dealers/{id}", h.GetDealer)).Methods("GET")

	// Authenticated user routes
	router.HandleFunc("/users/me", m("/users/me", h.authn.Required(h.GetProfile))).Methods("GET")
	router.HandleFunc("/users/me", m("/users/me", h.authn.Required(h.UpdateProfile))).Methods("PUT")
	router.HandleFunc("/users/me/username", m("/users/me/username", h.authn.Required(h.ChangeUsername))).Methods("PUT")
	router.HandleFunc("/dealers", m("/dealers", h.authn.Required(h.ApplyDealer))).Methods("POST")
	router.HandleFunc("/dealers/me", m("/dealers/me", h.authn.Required(h.MyDealer))).Methods("GET")

	// Admin routes
	router.HandleFunc("/admin/users", m("/admin/users", h.authn.Admin(h.ListUsers))).Methods("GET")
	router.HandleFunc("/admin/users/{id}/role", m("/admin/users/{id}/role", h.authn.Admin(h.ChangeRole))).Methods("PUT")
	router.HandleFunc("/admin/users/{id}/active", m("/admin/users/{id}/active", h.authn.Admin(h.ToggleActive))).Methods("PUT")
	router.HandleFunc("/admin/dealers", m("/admin/dealers", h.authn.Admin(h.ListDealers))).Methods("GET")
	router.HandleFunc("/admin/dealers/{id}/verification", m("/admin/dealers/{id}/verification", h.authn.Admin(h.VerifyDealer))).Methods("PUT")
}

func parseOptionalBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperror.Validation(name, name+" must be true or false")
	}
	return &v, nil
}
