package command

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/cepetdeal/marketplace/internal/identity"
	listingdomain "github.com/cepetdeal/marketplace/internal/listing/domain"
	"github.com/cepetdeal/marketplace/internal/message/domain"
	userdomain "github.com/cepetdeal/marketplace/internal/user/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/logger"
)

var ErrMessageSelf = apperror.Validation("receiverId", "You cannot send a message to yourself")

// SendMessageCommand represents a message about a listing
type SendMessageCommand struct {
	Principal  identity.Principal
	ListingID  uint
	ReceiverID uint
	Content    string
}

// SendMessageHandler handles send message command
type SendMessageHandler struct {
	messages domain.MessageRepository
	listings listingdomain.ListingRepository
	users    userdomain.UserRepository
}

func NewSendMessageHandler(messages domain.MessageRepository, listings listingdomain.ListingRepository, users userdomain.UserRepository) *SendMessageHandler {
	return &SendMessageHandler{messages: messages, listings: listings, users: users}
}

// Handle sends the message. Anyone but the owner writes to the owner; the owner
// answers a named user.
func (h *SendMessageHandler) Handle(ctx context.Context, cmd SendMessageCommand) (*domain.Message, error) {
	content := strings.TrimSpace(cmd.Content)
	if content == "" {
		return nil, apperror.Validation("content", "content is required")
	}
	if utf8.RuneCountInString(content) > domain.MaxContentLength {
		return nil, apperror.Validation("content", "content must be at most 2000 characters")
	}

	listing, err := h.listings.FindByID(ctx, cmd.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.Status.IsPublic() {
		return nil, listingdomain.ErrListingNotFound
	}

	receiverID := listing.OwnerID
	if listing.IsOwnedBy(cmd.Principal.UserID) {
		if cmd.ReceiverID == 0 {
			return nil, apperror.Validation("receiverId", "receiverId is required when replying to a buyer")
		}
		receiverID = cmd.ReceiverID
	}
	if receiverID == cmd.Principal.UserID {
		return nil, ErrMessageSelf
	}
	if _, err := h.users.FindByID(ctx, receiverID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ListingID:  listing.ID,
		SenderID:   cmd.Principal.UserID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := h.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("message_id", msg.ID).
		Uint("listing_id", listing.ID).
		Uint("sender_id", msg.SenderID).
		Uint("receiver_id", msg.ReceiverID).
		Msg("Message sent")

	return msg, nil
}
