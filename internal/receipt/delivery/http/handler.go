package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/receipt/render"
	"github.com/cepetdeal/marketplace/internal/receipt/usecase/command"
	"github.com/cepetdeal/marketplace/internal/receipt/usecase/query"
	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/httpx"
	"github.com/cepetdeal/marketplace/pkg/logger"
	"github.com/cepetdeal/marketplace/pkg/metrics"
)

// ReceiptHandler handles HTTP requests for sale receipts
type ReceiptHandler struct {
	commands command.Handlers
	queries  query.Handlers
	authn    *identity.Authenticator
	metrics  *metrics.HTTPMetrics
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(commands command.Handlers, queries query.Handlers, authn *identity.Authenticator, m *metrics.HTTPMetrics) *ReceiptHandler {
	return &ReceiptHandler{
		commands: commands,
		queries:  queries,
		authn:    authn,
		metrics:  m,
	}
}

type createReceiptRequest struct {
	ListingID     uint            `json:"listingId"`
	BuyerName     string          `json:"buyerName"`
	BuyerAddress  string          `json:"buyerAddress"`
	BuyerPhone    string          `json:"buyerPhone"`
	PaymentMethod string          `json:"paymentMethod"`
	TandaJadi     json.RawMessage `json:"tandaJadi" swaggertype:"integer"`
	DownPayment   json.RawMessage `json:"downPayment" swaggertype:"integer"`
	Notes         string          `json:"notes"`
	MarkAsSold    bool            `json:"markAsSold"`
}

// parseAmount reads an optional whole-rupiah amount given as a JSON number or a
// numeric string. Absent, null and "" mean not supplied.
func parseAmount(field string, raw json.RawMessage) (*int64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return nil, nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
		if s == "" {
			return nil, nil
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, apperror.Validation(field, field+" must be a whole number")
	}
	return &v, nil
}

// CreateReceipt godoc
// @Summary Record a sale
// @Description Optionally marks the listing SOLD in the same transaction
// @Tags Receipts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body createReceiptRequest true "Sale data"
// @Success 200 {object} domain.Receipt
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /receipts [post]
func (h *ReceiptHandler) CreateReceipt(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())

	var req createReceiptRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	if req.ListingID == 0 {
		httpx.RespondError(w, r, apperror.Validation("listingId", "listingId is required"))
		return
	}
	tandaJadi, err := parseAmount("tandaJadi", req.TandaJadi)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}
	downPayment, err := parseAmount("downPayment", req.DownPayment)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	receipt, err := h.commands.Create.Handle(r.Context(), command.CreateReceiptCommand{
		Principal:     p,
		ListingID:     req.ListingID,
		BuyerName:     req.BuyerName,
		BuyerAddress:  req.BuyerAddress,
		BuyerPhone:    req.BuyerPhone,
		PaymentMethod: req.PaymentMethod,
		TandaJadi:     tandaJadi,
		DownPayment:   downPayment,
		Notes:         req.Notes,
		MarkAsSold:    req.MarkAsSold,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, receipt)
}

// ListReceipts godoc
// @Summary List receipts
// @Description Sellers see their own receipts, admins see all
// @Tags Receipts
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} query.ReceiptPage
// @Router /receipts [get]
func (h *ReceiptHandler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())

	page, err := h.queries.List.Handle(r.Context(), p, httpx.QueryInt(r, "limit", 0), httpx.QueryInt(r, "offset", 0))
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, page)
}

// GetReceipt godoc
// @Summary Receipt detail
// @Tags Receipts
// @Security BearerAuth
// @Produce json
// @Param id path int true "Receipt ID"
// @Success 200 {object} domain.Receipt
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /receipts/{id} [get]
func (h *ReceiptHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())
	id, err := httpx.PathUint(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	receipt, err := h.queries.Get.Handle(r.Context(), id, p)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, receipt)
}

// PrintReceipt godoc
// @Summary Printable receipt
// @Description Self-printing HTML page with the receipt and the seller's profile
// @Tags Receipts
// @Security BearerAuth
// @Produce html
// @Param id path int true "Receipt ID"
// @Success 200 {string} string "HTML document"
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /receipts/{id}/pdf [get]
func (h *ReceiptHandler) PrintReceipt(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())
	id, err := httpx.PathUint(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	doc, err := h.queries.Document.Handle(r.Context(), id, p)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := render.Receipt(&buf, *doc); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.Warn(r.Context()).Err(err).Uint("receipt_id", id).Msg("Failed to write receipt document")
	}
}

// RegisterRoutes registers all receipt routes
func (h *ReceiptHandler) RegisterRoutes(router *mux.Router) {
	m := h.metrics.Wrap

	router.HandleFunc("/receipts", m("/receipts", h.authn.Required(h.CreateReceipt))).Methods("POST")
	router.HandleFunc("/receipts", m("/receipts", h.authn.Required(h.ListReceipts))).Methods("GET")
	router.HandleFunc("/receipts/{id:[0-9]+}", m("/receipts/{id}", h.authn.Required(h.GetReceipt))).Methods("GET")
	router.HandleFunc("/receipts/{id:[0-9]+}/pdf", m("/receipts/{id}/pdf", h.authn.Required(h.PrintReceipt))).Methods("GET")
}
