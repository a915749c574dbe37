// Package events defines the contract shared by every domain event the risk engine publishes.
package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the interface all domain events must implement.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	AggregateID() uuid.UUID
	AggregateType() string
	OccurredAt() time.Time
	// PartitionKey groups related events on the bus, e.g. by supplier.
	PartitionKey() string
}

// Header carries the metadata common to all events. Concrete events embed it and
// add their payload fields; the JSON form of the event is its wire payload.
type Header struct {
	OccurredAtUTC time.Time `json:"occurred_at"`
	Type          string    `json:"event_type"`
	Aggregate     string    `json:"aggregate_type"`
	ID            uuid.UUID `json:"event_id"`
	AggregateRef  uuid.UUID `json:"aggregate_id"`
}

// NewHeader creates a Header with a generated ID and the current time.
func NewHeader(eventType string, aggregateID uuid.UUID, aggregateType string) Header {
	return Header{
		ID:            uuid.New(),
		Type:          eventType,
		AggregateRef:  aggregateID,
		Aggregate:     aggregateType,
		OccurredAtUTC: time.Now().UTC(),
	}
}

// EventID returns the unique identifier for this event.
func (h Header) EventID() uuid.UUID { return h.ID }

// EventType returns the type name of this event.
func (h Header) EventType() string { return h.Type }

// AggregateID returns the identifier of the aggregate that produced this event.
func (h Header) AggregateID() uuid.UUID { return h.AggregateRef }

// AggregateType returns the type name of the aggregate that produced this event.
func (h Header) AggregateType() string { return h.Aggregate }

// OccurredAt returns the time at which this event occurred.
func (h Header) OccurredAt() time.Time { return h.OccurredAtUTC }
