package usecase

import (
	"io"
	"log/slog"
	"time"

	"github.com/supplyshield/riskengine/pkg/observability"
)

// Option configures the instrumentation shared by the scoring use cases.
type Option func(*instrumentation)

type instrumentation struct {
	logger  *slog.Logger
	metrics *observability.ScoringMetrics
	now     func() time.Time
}

func newInstrumentation(opts []Option) instrumentation {
	inst := instrumentation{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&inst)
	}
	return inst
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *instrumentation) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithMetrics sets the Prometheus collectors.
func WithMetrics(metrics *observability.ScoringMetrics) Option {
	return func(i *instrumentation) {
		i.metrics = metrics
	}
}

// WithClock overrides the time source used for record and alert timestamps.
func WithClock(now func() time.Time) Option {
	return func(i *instrumentation) {
		if now != nil {
			i.now = now
		}
	}
}
