package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/supplyshield/riskengine/pkg/events"
	pkgkafka "github.com/supplyshield/riskengine/pkg/kafka"
)

// MessageProducer is the subset of pkg/kafka.Producer the publisher needs.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, messages ...pkgkafka.Message) error
}

// Publisher relays outbox entries to Kafka. Entries are keyed by supplier so
// each supplier's events stay ordered within a partition.
type Publisher struct {
	producer MessageProducer
	logger   *slog.Logger
	topic    string
}

var _ events.EntryPublisher = (*Publisher)(nil)

// NewPublisher creates a new Kafka outbox publisher.
func NewPublisher(producer MessageProducer, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish sends outbox entries to Kafka in one batch. The stored payload is
// sent as is.
func (p *Publisher) Publish(ctx context.Context, entries ...events.OutboxEntry) error {
	if len(entries) == 0 {
		return nil
	}

	messages := make([]pkgkafka.Message, 0, len(entries))
	for _, e := range entries {
		p.logger.DebugContext(ctx, "publishing event",
			slog.String("event_type", e.EventType),
			slog.String("topic", p.topic),
			slog.Int("payload_size", len(e.Payload)),
		)

		messages = append(messages, pkgkafka.Message{
			Key:   []byte(e.PartitionKey),
			Value: e.Payload,
			Headers: map[string]string{
				"event_type":     e.EventType,
				"event_id":       e.ID.String(),
				"aggregate_type": e.AggregateType,
			},
		})
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events to topic %s: %w", p.topic, err)
	}

	return nil
}
