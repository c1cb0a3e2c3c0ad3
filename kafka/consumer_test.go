package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(eventType string, body []byte) *sarama.ConsumerMessage {
	return &sarama.ConsumerMessage{
		Topic: TopicListingEvents,
		Value: body,
		Headers: []*sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(eventType)},
			{Key: []byte("event_id"), Value: []byte("evt-1")},
		},
	}
}

func TestDispatchDecodesRegisteredEvent(t *testing.T) {
	c := newConsumer(nil, "test", []string{TopicListingEvents})

	var got ListingEvent
	var delivery Delivery
	c.RegisterHandler(EventTypeListingStatusChanged, func(_ context.Context, d Delivery) error {
		delivery = d
		return d.Decode(&got)
	})

	c.dispatch(context.Background(), message(EventTypeListingStatusChanged,
		[]byte(`{"event_type":"listing.status_changed","listing_id":7,"status":"SOLD"}`)))

	assert.Equal(t, "evt-1", delivery.EventID)
	assert.Equal(t, TopicListingEvents, delivery.Topic)
	assert.EqualValues(t, 7, got.ListingID)
	assert.Equal(t, "SOLD", got.Status)
}

func TestDispatchSkipsUnknownAndUntyped(t *testing.T) {
	c := newConsumer(nil, "test", nil)
	calls := 0
	c.RegisterHandler(EventTypeReceiptCreated, func(context.Context, Delivery) error {
		calls++
		return errors.New("handler failure is only logged")
	})

	c.dispatch(context.Background(), message(EventTypeListingDeleted, nil))
	c.dispatch(context.Background(), &sarama.ConsumerMessage{Topic: TopicReceiptEvents})
	require.Equal(t, 0, calls)

	c.dispatch(context.Background(), message(EventTypeReceiptCreated, []byte(`{}`)))
	assert.Equal(t, 1, calls)
}
