package query

import (
	"context"
	"time"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/message/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/logger"
)

// ConversationHandler returns the thread between the caller and another user about
// a listing and marks the caller's side as read
type ConversationHandler struct {
	messages domain.MessageRepository
}

func NewConversationHandler(messages domain.MessageRepository) *ConversationHandler {
	return &ConversationHandler{messages: messages}
}

func (h *ConversationHandler) Handle(ctx context.Context, p identity.Principal, listingID, withUserID uint) ([]domain.Message, error) {
	if listingID == 0 {
		return nil, apperror.Validation("listingId", "listingId is required")
	}
	if withUserID == 0 || withUserID == p.UserID {
		return nil, apperror.Validation("userId", "userId must name another user")
	}

	msgs, err := h.messages.Conversation(ctx, listingID, p.UserID, withUserID)
	if err != nil {
		return nil, err
	}

	if err := h.messages.MarkConversationRead(ctx, listingID, withUserID, p.UserID, time.Now()); err != nil {
		logger.Warn(ctx).Err(err).Uint("listing_id", listingID).Msg("Failed to mark conversation read")
	}
	return msgs, nil
}

type UnreadCountHandler struct {
	messages domain.MessageRepository
}

func NewUnreadCountHandler(messages domain.MessageRepository) *UnreadCountHandler {
	return &UnreadCountHandler{messages: messages}
}

func (h *UnreadCountHandler) Handle(ctx context.Context, userID uint) (int64, error) {
	return h.messages.CountUnread(ctx, userID)
}
