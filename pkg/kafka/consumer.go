package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Handler processes a consumed Kafka message. A nil return commits the
// message. An error is retried; if every attempt fails the consumer stops
// with the message uncommitted so it is redelivered after a restart.
type Handler func(ctx context.Context, msg Message) error

const (
	defaultHandlerAttempts = 5
	defaultHandlerBackoff  = 200 * time.Millisecond
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer wraps a kafka-go group reader.
type Consumer struct {
	reader      messageReader
	handler     Handler
	logger      *slog.Logger
	topic       string
	maxAttempts int
	backoff     time.Duration
}

// NewConsumer creates a new Consumer for the given topic with the provided handler.
func NewConsumer(cfg Config, topic string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.ConsumerGroup == "" {
		return nil, fmt.Errorf("kafka: consumer group is required")
	}
	dialer, err := cfg.dialer()
	if err != nil {
		return nil, err
	}

	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10 * 1024 * 1024, // 10 MB
		Dialer:   dialer,
	})

	return &Consumer{
		reader:      r,
		handler:     handler,
		logger:      logger,
		topic:       topic,
		maxAttempts: defaultHandlerAttempts,
		backoff:     defaultHandlerBackoff,
	}, nil
}

// Start consumes messages until the context is canceled. Offsets are committed
// in order, so a message whose handler keeps failing stops the consumer rather
// than being skipped by a later commit.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer starting", "topic", c.topic)

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Info("consumer stopping", "topic", c.topic)
				return nil
			}
			return fmt.Errorf("fetching message: %w", err)
		}

		if err := c.handle(ctx, m); err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping", "topic", c.topic)
				return nil
			}
			return fmt.Errorf("handling offset %d on partition %d: %w", m.Offset, m.Partition, err)
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			c.logger.Error("commit error",
				"topic", m.Topic,
				"partition", m.Partition,
				"offset", m.Offset,
				"error", err,
			)
		}
	}
}

// handle runs the handler with doubling backoff between attempts.
func (c *Consumer) handle(ctx context.Context, m kafkago.Message) error {
	attempts := max(c.maxAttempts, 1)
	wait := c.backoff
	msg := fromKafka(m)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = c.handler(ctx, msg); err == nil {
			return nil
		}
		c.logger.Error("handler error",
			"topic", m.Topic,
			"partition", m.Partition,
			"offset", m.Offset,
			"attempt", attempt,
			"error", err,
		)
		if attempt == attempts {
			break
		}
		if wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}
	}
	return err
}

// Close closes the reader.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return fmt.Errorf("closing kafka reader: %w", err)
	}
	return nil
}

func fromKafka(m kafkago.Message) Message {
	msg := Message{
		Key:     m.Key,
		Value:   m.Value,
		Headers: make(map[string]string, len(m.Headers)),
	}
	for _, h := range m.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}
