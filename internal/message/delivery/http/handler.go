package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/message/usecase/command"
	"github.com/cepetdeal/marketplace/internal/message/usecase/query"
	"github.com/cepetdeal/marketplace/pkg/httpx"
	"github.com/cepetdeal/marketplace/pkg/metrics"
)

// MessageHandler handles HTTP requests for buyer and seller messages
type MessageHandler struct {
	commands command.Handlers
	queries  query.Handlers
	authn    *identity.Authenticator
	metrics  *metrics.HTTPMetrics
}

func NewMessageHandler(commands command.Handlers, queries query.Handlers, authn *identity.Authenticator, m *metrics.HTTPMetrics) *MessageHandler {
	return &MessageHandler{
		commands: commands,
		queries:  queries,
		authn:    authn,
		metrics:  m,
	}
}

type sendMessageRequest struct {
	ListingID  uint   `json:"listingId"`
	ReceiverID uint   `json:"receiverId"`
	Content    string `json:"content"`
}

// UnreadCountResponse is the body of the unread count endpoint
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// SendMessage godoc
// @Summary Send a message about a listing
// @Tags Messages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body sendMessageRequest true "Message"
// @Success 201 {object} domain.Message
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /messages [post]
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())

	var req sendMessageRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	msg, err := h.commands.Send.Handle(r.Context(), command.SendMessageCommand{
		Principal:  p,
		ListingID:  req.ListingID,
		ReceiverID: req.ReceiverID,
		Content:    req.Content,
	})
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusCreated, msg)
}

// Inbox godoc
// @Summary Conversations of the current user
// @Tags Messages
// @Security BearerAuth
// @Produce json
// @Success 200 {array} query.ConversationSummary
// @Router /messages/inbox [get]
func (h *MessageHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())

	inbox, err := h.queries.Inbox.Handle(r.Context(), p.UserID)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, inbox)
}

// Conversation godoc
// @Summary Messages with one user about one listing
// @Tags Messages
// @Security BearerAuth
// @Produce json
// @Param listingId query int true "Listing ID"
// @Param userId query int true "Other user's ID"
// @Success 200 {array} domain.Message
// @Router /messages/conversation [get]
func (h *MessageHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())

	listingID := httpx.QueryInt(r, "listingId", 0)
	userID := httpx.QueryInt(r, "userId", 0)
	msgs, err := h.queries.Conversation.Handle(r.Context(), p, uint(max(listingID, 0)), uint(max(userID, 0)))
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, msgs)
}

// UnreadCount godoc
// @Summary Number of unread messages
// @Tags Messages
// @Security BearerAuth
// @Produce json
// @Success 200 {object} UnreadCountResponse
// @Router /messages/unread-count [get]
func (h *MessageHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())

	n, err := h.queries.Unread.Handle(r.Context(), p.UserID)
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, UnreadCountResponse{Count: n})
}

// MarkRead godoc
// @Summary Mark a message as read
// @Tags Messages
// @Security BearerAuth
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} httpx.MessageResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /messages/{id}/read [put]
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	p, _ := identity.FromContext(r.Context())
	id, err := httpx.PathUint(r, "id")
	if err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	if err := h.commands.MarkRead.Handle(r.Context(), id, p); err != nil {
		httpx.RespondError(w, r, err)
		return
	}

	httpx.RespondJSON(w, http.StatusOK, httpx.MessageResponse{Message: "Message marked as read"})
}

// RegisterRoutes registers all message routes
func (h *MessageHandler) RegisterRoutes(router *mux.Router) {
	m := h.metrics.Wrap

	router.HandleFunc("/messages", m("/messages", h.authn.Required(h.SendMessage))).Methods("POST")
	router.HandleFunc("/messages/inbox", m("/messages/inbox", h.authn.Required(h.Inbox))).Methods("GET")
	router.HandleFunc("/messages/conversation", m("/messages/conversation", h.authn.Required(h.Conversation))).Methods("GET")
	router.HandleFunc("/messages/unread-count", m("/messages/unread-count", h.authn.Required(h.UnreadCount))).Methods("GET")
	router.HandleFunc("/messages/{id:[0-9]+}/read", m("/messages/{id}/read", h.authn.Required(h.MarkRead))).Methods("PUT")
}
