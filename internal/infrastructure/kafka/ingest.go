package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/supplyshield/riskengine/internal/application/dto"
	"github.com/supplyshield/riskengine/internal/domain/errs"
	pkgkafka "github.com/supplyshield/riskengine/pkg/kafka"
)

// FinancingScorer scores one financing request.
type FinancingScorer interface {
	Execute(ctx context.Context, req dto.ScoreFinancingRequest) (dto.FinancingAssessmentResponse, error)
}

// FinancingIngestHandler returns a consumer handler that scores financing
// events arriving as JSON. Malformed and invalid messages are logged and
// committed; any other failure is returned so the consumer retries it and
// stops rather than committing past it.
func FinancingIngestHandler(scorer FinancingScorer, logger *slog.Logger) pkgkafka.Handler {
	return func(ctx context.Context, msg pkgkafka.Message) error {
		var req dto.ScoreFinancingRequest
		if err := json.Unmarshal(msg.Value, &req); err != nil {
			logger.WarnContext(ctx, "dropping undecodable financing message", "error", err)
			return nil
		}

		resp, err := scorer.Execute(ctx, req)
		if err != nil {
			if errs.IsValidation(err) {
				logger.WarnContext(ctx, "dropping invalid financing message",
					"invoice_no", req.InvoiceNo,
					"error", err,
				)
				return nil
			}
			return fmt.Errorf("failed to score financing event %s: %w", req.InvoiceNo, err)
		}

		logger.DebugContext(ctx, "financing message scored",
			"invoice_no", resp.InvoiceNo,
			"status", resp.Status,
			"risk_score", resp.RiskScore,
		)
		return nil
	}
}
