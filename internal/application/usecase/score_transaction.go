package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/supplyshield/riskengine/internal/application/dto"
	"github.com/supplyshield/riskengine/internal/domain/errs"
	"github.com/supplyshield/riskengine/internal/domain/event"
	"github.com/supplyshield/riskengine/internal/domain/model"
	"github.com/supplyshield/riskengine/internal/domain/port"
	"github.com/supplyshield/riskengine/internal/domain/service"
	"github.com/supplyshield/riskengine/pkg/events"
	"github.com/supplyshield/riskengine/pkg/observability"
)

const tracerName = "riskengine/usecase"

// ScoreTransaction is the history pipeline: it scores a supplier payment
// against the supplier's past records and raises an alert above the threshold.
type ScoreTransaction struct {
	store    port.TransactionStore
	scorer   *service.HistoryScorer
	engine   *service.RiskEngine
	alerts   *service.AlertPolicy
	locks    *supplierLocks
	tracer   trace.Tracer
	inst     instrumentation
	pipeline service.Pipeline
}

// NewScoreTransaction creates a new ScoreTransaction use case.
func NewScoreTransaction(
	store port.TransactionStore,
	scorer *service.HistoryScorer,
	engine *service.RiskEngine,
	alerts *service.AlertPolicy,
	noiseMax int,
	opts ...Option,
) *ScoreTransaction {
	return &ScoreTransaction{
		store:    store,
		scorer:   scorer,
		engine:   engine,
		alerts:   alerts,
		locks:    newSupplierLocks(),
		tracer:   observability.Tracer(tracerName),
		inst:     newInstrumentation(opts),
		pipeline: service.HistoryPipeline(noiseMax, alerts),
	}
}

// Execute validates the request, scores it and persists the record, its alert
// and the resulting events together.
func (uc *ScoreTransaction) Execute(ctx context.Context, req dto.ScoreTransactionRequest) (dto.ScoreTransactionResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "ScoreTransaction")
	defer span.End()

	// 1. Validate before touching any state.
	amount, err := model.ParseAmount(req.Amount)
	if err != nil {
		return dto.ScoreTransactionResponse{}, uc.fail(span, err)
	}
	now := uc.inst.now()
	tx, err := model.NewTransactionAt(req.Supplier, amount, now)
	if err != nil {
		return dto.ScoreTransactionResponse{}, uc.fail(span, err)
	}
	span.SetAttributes(attribute.String("supplier", tx.Supplier()))

	// 2. Serialize read-score-append for this supplier.
	unlock := uc.locks.lock(tx.Supplier())
	defer unlock()

	history, err := uc.store.LoadHistory(ctx, tx.Supplier())
	if err != nil {
		return dto.ScoreTransactionResponse{}, uc.fail(span, fmt.Errorf("failed to load history: %w", err))
	}

	// 3. Score, add noise, classify.
	output := uc.scorer.Score(tx.Amount(), history)
	eval := uc.engine.Evaluate(output.Score, uc.pipeline)

	record, err := model.NewTransactionRecord(tx, eval.Final)
	if err != nil {
		return dto.ScoreTransactionResponse{}, uc.fail(span, fmt.Errorf("failed to create record: %w", err))
	}

	var alert *model.Alert
	if uc.alerts.ShouldAlert(eval.Final) {
		alert = uc.alerts.NewAlert(tx.Supplier(), eval.Final, now)
	}
	evts := []events.DomainEvent{event.NewTransactionScored(record, alert != nil)}
	if alert != nil {
		evts = append(evts, event.NewAlertRaised(alert))
	}

	// 4. Persist record, alert and outbox events together.
	if err := uc.store.AppendTransaction(ctx, record, alert, evts...); err != nil {
		return dto.ScoreTransactionResponse{}, uc.fail(span, fmt.Errorf("failed to append transaction: %w", err))
	}

	span.SetAttributes(
		attribute.Int("risk.raw", eval.Raw),
		attribute.Int("risk.final", eval.Final),
		attribute.String("verdict", eval.Verdict.String()),
	)
	uc.inst.metrics.ObserveScore(eval.Pipeline.String(), eval.Verdict.String(), eval.Final)

	if alert != nil {
		uc.inst.metrics.IncAlert()
		uc.inst.logger.WarnContext(ctx, "high risk transaction",
			"supplier", alert.Supplier(),
			"risk", alert.Score(),
		)
	}

	return dto.ScoreTransactionResponse{
		ID:         record.ID(),
		Supplier:   record.Supplier(),
		Amount:     record.Amount().String(),
		Risk:       record.Risk(),
		Alert:      alert != nil,
		Signals:    output.Signals,
		RecordedAt: record.RecordedAt(),
	}, nil
}

func (uc *ScoreTransaction) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	uc.inst.metrics.IncFailure(uc.pipeline.Kind.String(), failureReason(err))
	return err
}

func failureReason(err error) string {
	switch {
	case errs.IsValidation(err):
		return "validation"
	case errs.IsStorage(err):
		return "storage"
	default:
		return "internal"
	}
}
