package query

import (
	"context"

	listingdomain "github.com/cepetdeal/marketplace/internal/listing/domain"
	"github.com/cepetdeal/marketplace/internal/message/domain"
	userdomain "github.com/cepetdeal/marketplace/internal/user/domain"
	"github.com/cepetdeal/marketplace/pkg/apperror"
	"github.com/cepetdeal/marketplace/pkg/logger"
)

// inboxWindow bounds how many recent messages the inbox is built from
const inboxWindow = 500

// Participant is the public view of the other side of a conversation
type Participant struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// ConversationSummary is one inbox row: a listing and a counterpart
type ConversationSummary struct {
	ListingID    uint           `json:"listingId"`
	ListingTitle string         `json:"listingTitle"`
	ListingSlug  string         `json:"listingSlug"`
	With         Participant    `json:"with"`
	LastMessage  domain.Message `json:"lastMessage"`
	UnreadCount  int            `json:"unreadCount"`
}

type InboxHandler struct {
	messages domain.MessageRepository
	listings listingdomain.ListingRepository
	users    userdomain.UserRepository
}

func NewInboxHandler(messages domain.MessageRepository, listings listingdomain.ListingRepository, users userdomain.UserRepository) *InboxHandler {
	return &InboxHandler{messages: messages, listings: listings, users: users}
}

// Handle groups the user's recent messages into conversations, newest first
func (h *InboxHandler) Handle(ctx context.Context, userID uint) ([]ConversationSummary, error) {
	msgs, err := h.messages.ListForUser(ctx, userID, inboxWindow)
	if err != nil {
		return nil, err
	}

	type key struct{ listing, with uint }
	index := map[key]int{}
	out := []ConversationSummary{}
	for _, m := range msgs {
		k := key{m.ListingID, m.Counterpart(userID)}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, ConversationSummary{ListingID: m.ListingID, With: Participant{ID: k.with}, LastMessage: m})
		}
		if m.ReceiverID == userID && !m.IsRead {
			out[i].UnreadCount++
		}
	}

	listings := map[uint]*listingdomain.Listing{}
	users := map[uint]*userdomain.User{}
	for i := range out {
		c := &out[i]
		l, ok := listings[c.ListingID]
		if !ok {
			l, err = h.listings.FindByID(ctx, c.ListingID)
			if err != nil && apperror.KindOf(err) != apperror.KindNotFound {
				return nil, err
			}
			listings[c.ListingID] = l
		}
		if l != nil {
			c.ListingTitle, c.ListingSlug = l.Title, l.Slug
		}

		u, ok := users[c.With.ID]
		if !ok {
			u, err = h.users.FindByID(ctx, c.With.ID)
			if err != nil && apperror.KindOf(err) != apperror.KindNotFound {
				return nil, err
			}
			users[c.With.ID] = u
		}
		if u != nil {
			c.With.Username, c.With.FullName = u.Username, u.FullName
		} else {
			logger.Debug(ctx).Uint("user_id", c.With.ID).Msg("Conversation counterpart no longer exists")
		}
	}
	return out, nil
}
