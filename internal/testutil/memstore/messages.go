package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/cepetdeal/marketplace/internal/message/domain"
)

// MessageRepo implements domain.MessageRepository
type MessageRepo struct{ s *Store }

func (s *Store) Messages() *MessageRepo { return &MessageRepo{s: s} }

func (r *MessageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	msg.ID = r.s.id("messages")
	msg.CreatedAt = r.s.Now()
	r.s.messages[msg.ID] = *msg
	return nil
}

func (r *MessageRepo) FindByID(_ context.Context, id uint) (*domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.messages[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	return &m, nil
}

func (r *MessageRepo) sorted(keep func(domain.Message) bool, newestFirst bool) []domain.Message {
	out := []domain.Message{}
	for _, m := range r.s.messages {
		if keep(m) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *MessageRepo) ListForUser(_ context.Context, userID uint, limit int) ([]domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := r.sorted(func(m domain.Message) bool {
		return m.SenderID == userID || m.ReceiverID == userID
	}, true)
	return page(out, limit, 0), nil
}

func (r *MessageRepo) Conversation(_ context.Context, listingID, userA, userB uint) ([]domain.Message, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	return r.sorted(func(m domain.Message) bool {
		return m.ListingID == listingID &&
			((m.SenderID == userA && m.ReceiverID == userB) || (m.SenderID == userB && m.ReceiverID == userA))
	}, false), nil
}

func (r *MessageRepo) CountUnread(_ context.Context, userID uint) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, m := range r.s.messages {
		if m.ReceiverID == userID && !m.IsRead {
			n++
		}
	}
	return n, nil
}

func (r *MessageRepo) MarkRead(_ context.Context, id, receiverID uint, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	m, ok := r.s.messages[id]
	if !ok || m.ReceiverID != receiverID {
		return false, nil
	}
	if !m.IsRead {
		m.IsRead = true
		m.ReadAt = &at
		r.s.messages[id] = m
	}
	return true, nil
}

func (r *MessageRepo) MarkConversationRead(_ context.Context, listingID, senderID, receiverID uint, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, m := range r.s.messages {
		if m.ListingID == listingID && m.SenderID == senderID && m.ReceiverID == receiverID && !m.IsRead {
			m.IsRead = true
			m.ReadAt = &at
			r.s.messages[id] = m
		}
	}
	return nil
}
