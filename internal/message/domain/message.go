package domain

import (
	"context"
	"time"

	"github.com/cepetdeal/marketplace/pkg/apperror"
)

// MaxContentLength is the longest message body accepted, in characters
const MaxContentLength = 2000

var ErrMessageNotFound = apperror.NotFound("MESSAGE_NOT_FOUND", "Message not found")

// Message is a note between a buyer and a seller about one listing
type Message struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	ListingID  uint       `json:"listingId" gorm:"index;not null"`
	SenderID   uint       `json:"senderId" gorm:"index;not null"`
	ReceiverID uint       `json:"receiverId" gorm:"index:idx_message_receiver_read;not null"`
	Content    string     `json:"content" gorm:"type:text;not null"`
	IsRead     bool       `json:"isRead" gorm:"index:idx_message_receiver_read;default:false"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt" gorm:"index"`
}

func (Message) TableName() string {
	return "messages"
}

// Counterpart returns the other participant of the message as seen by userID
func (m *Message) Counterpart(userID uint) uint {
	if m.SenderID == userID {
		return m.ReceiverID
	}
	return m.SenderID
}

// MessageRepository defines the contract for message data access
type MessageRepository interface {
	Create(ctx context.Context, msg *Message) error
	FindByID(ctx context.Context, id uint) (*Message, error)
	// ListForUser returns messages sent or received by userID, newest first
	ListForUser(ctx context.Context, userID uint, limit int) ([]Message, error)
	// Conversation returns the messages between two users about a listing, oldest first
	Conversation(ctx context.Context, listingID, userA, userB uint) ([]Message, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	// MarkRead marks one message read if receiverID received it
	MarkRead(ctx context.Context, id, receiverID uint, at time.Time) (bool, error)
	// MarkConversationRead marks every unread message from sender to receiver about listingID
	MarkConversationRead(ctx context.Context, listingID, senderID, receiverID uint, at time.Time) error
}
