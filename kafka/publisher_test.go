package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishListingEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event ListingEvent
		require.NoError(t, json.Unmarshal(val, &event))
		assert.Equal(t, EventTypeListingStatusChanged, event.EventType)
		assert.Equal(t, "SOLD", event.Status)
		assert.NotEmpty(t, event.EventID)
		return nil
	})

	p := &Publisher{producer: producer}
	err := p.PublishListingEvent(context.Background(), ListingEvent{
		EventType:      EventTypeListingStatusChanged,
		ListingID:      10,
		PreviousStatus: "ACTIVE",
		Status:         "SOLD",
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestPublishReceiptEventFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := &Publisher{producer: producer}
	err := p.PublishReceiptEvent(context.Background(), ReceiptEvent{
		EventType: EventTypeReceiptCreated,
		ListingID: 10,
	})
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}
