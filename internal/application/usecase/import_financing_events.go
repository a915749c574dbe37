package usecase

import (
	"context"
	"log/slog"

	"github.com/supplyshield/riskengine/internal/application/dto"
	"github.com/supplyshield/riskengine/internal/domain/errs"
	"github.com/supplyshield/riskengine/internal/domain/valueobject"
)

// ImportFinancingEvents scores a batch of financing rows sequentially in input
// order. A bad row is reported and the batch continues; a storage failure
// aborts the remainder.
type ImportFinancingEvents struct {
	score  *ScoreFinancingEvent
	logger *slog.Logger
}

// NewImportFinancingEvents creates a new ImportFinancingEvents use case.
func NewImportFinancingEvents(score *ScoreFinancingEvent, logger *slog.Logger) *ImportFinancingEvents {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportFinancingEvents{score: score, logger: logger}
}

// Execute processes rows and returns a per-row summary. The returned error is
// non-nil only when the batch stopped early; the summary then covers the rows
// processed so far.
func (uc *ImportFinancingEvents) Execute(ctx context.Context, rows []dto.ImportRow) (dto.ImportResult, error) {
	result := dto.ImportResult{Rows: make([]dto.ImportRowResult, 0, len(rows))}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		entry := dto.ImportRowResult{Line: row.Line, InvoiceNo: row.Request.InvoiceNo}
		result.Processed++

		if row.ParseError != "" {
			entry.Error = row.ParseError
			result.Failed++
			result.Rows = append(result.Rows, entry)
			continue
		}

		resp, err := uc.score.Execute(ctx, row.Request)
		if err != nil {
			entry.Error = err.Error()
			result.Failed++
			result.Rows = append(result.Rows, entry)
			if !errs.IsValidation(err) {
				uc.logger.ErrorContext(ctx, "import aborted", "line", row.Line, "error", err)
				return result, err
			}
			continue
		}

		entry.Assessment = &resp
		result.Succeeded++
		if resp.Status == valueobject.VerdictFraud.String() {
			result.Fraud++
		}
		result.Rows = append(result.Rows, entry)
	}

	uc.logger.InfoContext(ctx, "financing import complete",
		"processed", result.Processed,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"fraud", result.Fraud,
	)
	return result, nil
}
