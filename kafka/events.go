package kafka

import (
	"context"
	"time"
)

// Event types
const (
	EventTypeListingCreated       = "listing.created"
	EventTypeListingStatusChanged = "listing.status_changed"
	EventTypeListingUpdated       = "listing.updated"
	EventTypeListingDeleted       = "listing.deleted"
	EventTypeReceiptCreated       = "receipt.created"
)

// Kafka topics
const (
	TopicListingEvents = "marketplace-listing-events"
	TopicReceiptEvents = "marketplace-receipt-events"
)

// ListingEvent describes a change in a listing's lifecycle
type ListingEvent struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	ListingID      uint      `json:"listing_id"`
	Slug           string    `json:"slug"`
	OwnerID        uint      `json:"owner_id"`
	ActorID        uint      `json:"actor_id"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Status         string    `json:"status"`
	Price          int64     `json:"price"`
	Timestamp      time.Time `json:"timestamp"`
}

// ReceiptEvent describes an issued sale receipt
type ReceiptEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	ReceiptID     uint      `json:"receipt_id"`
	ReceiptNumber string    `json:"receipt_number"`
	ListingID     uint      `json:"listing_id"`
	SellerID      uint      `json:"seller_id"`
	PaymentMethod string    `json:"payment_method"`
	TotalPrice    int64     `json:"total_price"`
	TotalPaid     int64     `json:"total_paid"`
	MarkedSold    bool      `json:"marked_sold"`
	Timestamp     time.Time `json:"timestamp"`
}

// EventPublisher publishes marketplace domain events
type EventPublisher interface {
	PublishListingEvent(ctx context.Context, event ListingEvent) error
	PublishReceiptEvent(ctx context.Context, event ReceiptEvent) error
}

// NopPublisher drops every event; used when no brokers are configured
type NopPublisher struct{}

func (NopPublisher) PublishListingEvent(context.Context, ListingEvent) error { return nil }

func (NopPublisher) PublishReceiptEvent(context.Context, ReceiptEvent) error { return nil }
