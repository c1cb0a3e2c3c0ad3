package command

import (
	"context"
	"time"

	"github.com/cepetdeal/marketplace/internal/identity"
	"github.com/cepetdeal/marketplace/internal/message/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
)

var ErrNotReceiver = apperror.Forbidden("NOT_MESSAGE_RECEIVER", "Only the receiver can mark a message as read")

type MarkReadHandler struct {
	messages domain.MessageRepository
}

func NewMarkReadHandler(messages domain.MessageRepository) *MarkReadHandler {
	return &MarkReadHandler{messages: messages}
}

func (h *MarkReadHandler) Handle(ctx context.Context, id uint, p identity.Principal) error {
	ok, err := h.messages.MarkRead(ctx, id, p.UserID, time.Now())
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	if _, err := h.messages.FindByID(ctx, id); err != nil {
		return err
	}
	return ErrNotReceiver
}
