package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	defaultRelayInterval  = time.Second
	defaultRelayBatchSize = 100
)

// Relay moves outbox entries to the broker. Delivery is at least once: an entry
// published but not yet marked is sent again on the next pass.
type Relay struct {
	repo      OutboxRepository
	publisher EntryPublisher
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// RelayConfig tunes the relay. Zero values take the defaults.
type RelayConfig struct {
	Interval  time.Duration
	BatchSize int
}

// NewRelay creates a Relay.
func NewRelay(repo OutboxRepository, publisher EntryPublisher, cfg RelayConfig, logger *slog.Logger) *Relay {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultRelayInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultRelayBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		interval:  cfg.Interval,
		batchSize: cfg.BatchSize,
	}
}

// Run drains the outbox every interval until ctx is canceled. Failed passes are
// logged and retried on the next tick.
func (r *Relay) Run(ctx context.Context) error {
	r.logger.Info("outbox relay starting", "interval", r.interval, "batch_size", r.batchSize)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		n, err := r.Drain(ctx)
		switch {
		case ctx.Err() != nil:
			r.logger.Info("outbox relay stopping")
			return nil
		case err != nil:
			r.logger.Error("outbox relay pass failed", "published", n, "error", err)
		case n > 0:
			r.logger.Debug("outbox relay pass", "published", n)
		}

		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopping")
			return nil
		case <-ticker.C:
		}
	}
}

// Drain publishes unpublished entries batch by batch, oldest first, until the
// outbox is empty. It returns the number of entries published.
func (r *Relay) Drain(ctx context.Context) (int, error) {
	published := 0
	for {
		entries, err := r.repo.FetchUnpublished(ctx, r.batchSize)
		if err != nil {
			return published, fmt.Errorf("fetch outbox: %w", err)
		}
		if len(entries) == 0 {
			return published, nil
		}

		if err := r.publisher.Publish(ctx, entries...); err != nil {
			return published, fmt.Errorf("publish outbox: %w", err)
		}

		ids := make([]uuid.UUID, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.ID)
		}
		if err := r.repo.MarkPublished(ctx, ids); err != nil {
			return published, fmt.Errorf("mark outbox published: %w", err)
		}
		published += len(entries)

		if len(entries) < r.batchSize {
			return published, nil
		}
	}
}
