package http

import (
	"net/http"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/user/usecase/command"
	"github.com/cepetdeal/marketplace/internal/user/usecase/query"
	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/httpx"
)

// ApplyDealer godoc
// @Summary Apply for a dealer profile
// @Tags Dealers
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{businessName=string,address=string,city=string,phone=string,description=string} true "Dealer profile"
// @Success 201 {object} domain.Dealer
// @Failure 409 {object} httpx.ErrorResponse
// @Router /dealers [post]
func (h *UserHandler) ApplyDealer(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())

	var req struct {
		BusinessName string `json:"businessName"`
		Address      string `json:"address"`
		City         string `json:"city"`
		Phone        string `json:"phone"`
		Description  string `json:"description"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	dealer, err := h.commands.ApplyDealer.Handle(r.Context(), command.ApplyDealerCommand{
		UserID:       p.UserID,
		BusinessName: req.BusinessName,
		Address:      req.Address,
		City:         req.City,
		Phone:        req.Phone,
		Description:  req.Description,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusCreated, dealer)
}

// GetDealer godoc
// @Summary Public dealer profile
// @Tags Dealers
// @Produce json
// @Param id path int true "Dealer ID"
// @Success 200 {object} domain.Dealer
// @Failure 404 {object} httpx.ErrorResponse
// @Router /dealers/{id} [get]
func (h *UserHandler) GetDealer(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUint(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	dealer, err := h.queries.GetDealer.Handle(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, dealer)
}

// MyDealer returns the caller's own dealer profile
func (h *UserHandler) MyDealer(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())

	dealer, err := h.queries.GetDealer.ByUser(r.Context(), p.UserID)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, dealer)
}

// ListDealers godoc
// @Summary List dealers
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param verified query bool false "Verification filter"
// @Success 200 {object} query.DealerPage
// @Router /admin/dealers [get]
func (h *UserHandler) ListDealers(w http.ResponseWriter, r *http.Request) {
	verified, err := parseOptionalBool(r, "verified")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	page, err := h.queries.ListDealers.Handle(r.Context(), query.ListDealersQuery{
		Verified: verified,
		Limit:    httpx.QueryInt(r, "limit", 0),
		Offset:   httpx.QueryInt(r, "offset", 0),
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, page)
}

// VerifyDealer godoc
// @Summary Verify or revoke a dealer
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Dealer ID"
// @Param request body object{verified=bool} true "Verification flag"
// @Success 200 {object} domain.Dealer
// @Router /admin/dealers/{id}/verification [put]
func (h *UserHandler) VerifyDealer(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())
	id, err := httpx.PathUint(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	var req struct {
		Verified *bool `json:"verified"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	if req.Verified == nil {
		httpx.RespondError(w, r, apperror.Validation("verified", "verified is required"))
		return
	}

	dealer, err := h.commands.VerifyDealer.Handle(r.Context(), command.VerifyDealerCommand{
		ActorID:  p.UserID,
		DealerID: id,
		Verified: *req.Verified,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, dealer)
}
