package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/supplyshield/riskengine/internal/application/dto"
	"github.com/supplyshield/riskengine/internal/domain/event"
	"github.com/supplyshield/riskengine/internal/domain/model"
	"github.com/supplyshield/riskengine/internal/domain/port"
	"github.com/supplyshield/riskengine/internal/domain/service"
	"github.com/supplyshield/riskengine/pkg/observability"
)

// ScoreFinancingEvent is the relationship pipeline: it scores an invoice
// financing event for duplicate submission and network fan-out.
type ScoreFinancingEvent struct {
	store     port.FinancingStore
	projector port.GraphProjector
	scorer    *service.RelationshipScorer
	engine    *service.RiskEngine
	tracer    trace.Tracer
	inst      instrumentation
	pipeline  service.Pipeline
}

// NewScoreFinancingEvent creates a new ScoreFinancingEvent use case. projector
// may be nil.
func NewScoreFinancingEvent(
	store port.FinancingStore,
	projector port.GraphProjector,
	scorer *service.RelationshipScorer,
	engine *service.RiskEngine,
	fraud *service.FraudPolicy,
	noiseMax int,
	opts ...Option,
) *ScoreFinancingEvent {
	return &ScoreFinancingEvent{
		store:     store,
		projector: projector,
		scorer:    scorer,
		engine:    engine,
		tracer:    observability.Tracer(tracerName),
		inst:      newInstrumentation(opts),
		pipeline:  service.RelationshipPipeline(noiseMax, fraud),
	}
}

// Execute validates and scores the event. The assessment is persisted while the
// scorer holds its lock; the fingerprint and edge are kept only if that write
// succeeds.
func (uc *ScoreFinancingEvent) Execute(ctx context.Context, req dto.ScoreFinancingRequest) (dto.FinancingAssessmentResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "ScoreFinancingEvent")
	defer span.End()

	// 1. Validate before touching any state.
	amount, err := model.ParseAmount(req.Amount)
	if err != nil {
		return dto.FinancingAssessmentResponse{}, uc.fail(span, err)
	}
	financing, err := model.NewFinancingEvent(req.InvoiceNo, amount, req.Supplier, req.Buyer, req.Lender)
	if err != nil {
		return dto.FinancingAssessmentResponse{}, uc.fail(span, err)
	}
	span.SetAttributes(
		attribute.String("invoice_no", financing.InvoiceNumber()),
		attribute.String("supplier", financing.Supplier()),
	)

	// 2. Observe, evaluate and persist atomically with respect to scorer state.
	var (
		assessment *model.FinancingAssessment
		eval       service.Evaluation
	)
	obs, err := uc.scorer.Apply(financing, func(obs service.Observation) error {
		eval = uc.engine.Evaluate(obs.Output.Score, uc.pipeline)

		a, err := model.NewFinancingAssessment(financing, obs.Fingerprint, eval.Raw, eval.Final, eval.Verdict, obs.Duplicate)
		if err != nil {
			return fmt.Errorf("failed to create assessment: %w", err)
		}
		if err := uc.store.SaveFinancingAssessment(ctx, a, event.NewFinancingAssessed(a)); err != nil {
			return fmt.Errorf("failed to save assessment: %w", err)
		}
		assessment = a
		return nil
	})
	if err != nil {
		return dto.FinancingAssessmentResponse{}, uc.fail(span, err)
	}

	span.SetAttributes(
		attribute.String("fingerprint", obs.Fingerprint.String()),
		attribute.Int("risk.final", eval.Final),
		attribute.String("verdict", eval.Verdict.String()),
	)
	uc.inst.metrics.ObserveScore(eval.Pipeline.String(), eval.Verdict.String(), eval.Final)
	if obs.Duplicate {
		uc.inst.metrics.IncDuplicate()
	}
	if eval.Verdict.IsAdverse() {
		uc.inst.logger.WarnContext(ctx, "financing event flagged",
			"invoice_no", financing.InvoiceNumber(),
			"supplier", financing.Supplier(),
			"risk", eval.Final,
			"duplicate", obs.Duplicate,
		)
	}

	// 3. Mirror the edge; a failure cannot undo the stored assessment.
	if uc.projector != nil {
		if err := uc.projector.ProjectEdge(ctx, financing.Supplier(), financing.Buyer(), financing.Lender()); err != nil {
			uc.inst.logger.ErrorContext(ctx, "failed to project relationship",
				"supplier", financing.Supplier(),
				"buyer", financing.Buyer(),
				"error", err,
			)
		}
	}

	resp := dto.FromFinancingAssessment(assessment)
	resp.Signals = obs.Output.Signals
	return resp, nil
}

func (uc *ScoreFinancingEvent) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	uc.inst.metrics.IncFailure(uc.pipeline.Kind.String(), failureReason(err))
	return err
}
