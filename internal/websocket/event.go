package websocket

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType is what happened to an entity
type EventType string

const (
	EventTypeCreated  EventType = "created"
	EventTypeDeleted  EventType = "deleted"
	EventTypeReplaced EventType = "replaced"
	EventTypeEvicted  EventType = "evicted"
)

// EntityType is what the event is about
type EntityType string

const (
	EntityTypeTransaction EntityType = "transaction"
	EntityTypeSnapshot    EntityType = "snapshot"
)

// Event is the message pushed to clients.
// Format: { type, entity, payload, timestamp }
type Event struct {
	Type      string      `json:"type"` // e.g. "snapshot.replaced"
	Entity    EntityType  `json:"entity"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent builds an event named "<entity>.<type>"
func NewEvent(eventType EventType, entityType EntityType, payload interface{}) Event {
	return Event{
		Type:      fmt.Sprintf("%s.%s", entityType, eventType),
		Entity:    entityType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// SnapshotReplacedPayload tells clients their cached figures are stale
type SnapshotReplacedPayload struct {
	Transactions int       `json:"transactions"`
	Investments  int       `json:"investments"`
	FetchedAt    time.Time `json:"fetchedAt"`
}

// TransactionDeletedPayload identifies a removed transaction
type TransactionDeletedPayload struct {
	ID string `json:"id"`
}

// SnapshotReplaced creates a snapshot.replaced event
func SnapshotReplaced(payload SnapshotReplacedPayload) Event {
	return NewEvent(EventTypeReplaced, EntityTypeSnapshot, payload)
}

// SnapshotEvicted creates a snapshot.evicted event, the last message a session's
// listeners get before the hub closes them
func SnapshotEvicted() Event {
	return NewEvent(EventTypeEvicted, EntityTypeSnapshot, nil)
}

// TransactionCreated creates a transaction.created event
func TransactionCreated(payload interface{}) Event {
	return NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
}

// TransactionDeleted creates a transaction.deleted event
func TransactionDeleted(id string) Event {
	return NewEvent(EventTypeDeleted, EntityTypeTransaction, TransactionDeletedPayload{ID: id})
}
