package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingEventJSON(t *testing.T) {
	event := ListingEvent{
		Type:       ListingCreated,
		ListingID:  "abc",
		Title:      "Go Developer",
		OccurredAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	raw, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "listing_created", decoded["type"])
	assert.Equal(t, "abc", decoded["listingId"])
	assert.Equal(t, "2025-01-02T03:04:05Z", decoded["occurredAt"])
	assert.NotContains(t, decoded, "actorId")
}

func TestNewKafkaPublisherRequiresBrokersAndTopic(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "listing-events")
	assert.Error(t, err)

	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "")
	assert.Error(t, err)

	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "listing-events")
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), ListingEvent{Type: ListingDeleted}))
	assert.NoError(t, p.Close())
}
