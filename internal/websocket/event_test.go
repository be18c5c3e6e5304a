package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{"id": "1"}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
	after := time.Now()

	assert.Equal(t, "transaction.created", evt.Type)
	assert.Equal(t, EntityTypeTransaction, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
	assert.Equal(t, time.UTC, evt.Timestamp.Location())
}

func TestEventHelpers(t *testing.T) {
	fetched := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		event    Event
		wantType string
		entity   EntityType
	}{
		{"snapshot replaced", SnapshotReplaced(SnapshotReplacedPayload{Transactions: 3, FetchedAt: fetched}), "snapshot.replaced", EntityTypeSnapshot},
		{"transaction created", TransactionCreated(map[string]string{"id": "7"}), "transaction.created", EntityTypeTransaction},
		{"transaction deleted", TransactionDeleted("7"), "transaction.deleted", EntityTypeTransaction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.event.Type)
			assert.Equal(t, tt.entity, tt.event.Entity)
		})
	}
}

func TestEvent_ToJSON(t *testing.T) {
	evt := SnapshotReplaced(SnapshotReplacedPayload{
		Transactions: 12,
		Investments:  2,
		FetchedAt:    time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "snapshot.replaced", decoded["type"])
	assert.Equal(t, "snapshot", decoded["entity"])
	assert.Contains(t, decoded, "timestamp")

	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(12), payload["transactions"])
	assert.Equal(t, float64(2), payload["investments"])
	assert.Equal(t, "2024-03-15T12:00:00Z", payload["fetchedAt"])
}

func TestTransactionDeleted_Payload(t *testing.T) {
	data, err := TransactionDeleted("abc").ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"payload":{"id":"abc"}`)
}
