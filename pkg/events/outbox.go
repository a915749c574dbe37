package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OutboxEntry is a domain event stored next to the data it describes, waiting
// to be relayed to the broker.
type OutboxEntry struct {
	CreatedAt     time.Time
	PublishedAt   *time.Time
	EventType     string
	AggregateType string
	PartitionKey  string
	Payload       []byte
	ID            uuid.UUID
	AggregateID   uuid.UUID
}

// NewOutboxEntry creates an OutboxEntry from a DomainEvent. The payload is the
// JSON form of the event itself.
func NewOutboxEntry(event DomainEvent) (OutboxEntry, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return OutboxEntry{}, fmt.Errorf("failed to marshal event %s: %w", event.EventType(), err)
	}
	return OutboxEntry{
		ID:            event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		EventType:     event.EventType(),
		PartitionKey:  event.PartitionKey(),
		Payload:       payload,
		CreatedAt:     event.OccurredAt(),
	}, nil
}

// NewOutboxEntries converts events in order.
func NewOutboxEntries(evts ...DomainEvent) ([]OutboxEntry, error) {
	entries := make([]OutboxEntry, 0, len(evts))
	for _, evt := range evts {
		entry, err := NewOutboxEntry(evt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// OutboxRepository reads and acknowledges stored outbox entries. Entries are
// written by the stores inside the transaction of the data they describe.
type OutboxRepository interface {
	// FetchUnpublished returns up to batchSize unpublished entries, oldest first.
	FetchUnpublished(ctx context.Context, batchSize int) ([]OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}

// EntryPublisher sends outbox entries to a message broker.
type EntryPublisher interface {
	Publish(ctx context.Context, entries ...OutboxEntry) error
}
