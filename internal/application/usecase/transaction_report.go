package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/supplyshield/riskengine/internal/application/dto"
	"github.com/supplyshield/riskengine/internal/domain/port"
)

// TransactionSummary aggregates every stored transaction.
type TransactionSummary struct {
	store         port.TransactionStore
	highRiskScore int
}

// NewTransactionSummary creates a new TransactionSummary use case. Records at
// or above highRiskScore count as high risk.
func NewTransactionSummary(store port.TransactionStore, highRiskScore int) *TransactionSummary {
	return &TransactionSummary{store: store, highRiskScore: highRiskScore}
}

// Execute builds the summary. The average risk is rounded to two decimals and
// is zero for an empty store.
func (uc *TransactionSummary) Execute(ctx context.Context) (dto.TransactionSummaryResponse, error) {
	records, err := uc.store.ListTransactions(ctx)
	if err != nil {
		return dto.TransactionSummaryResponse{}, fmt.Errorf("failed to list transactions: %w", err)
	}

	resp := dto.TransactionSummaryResponse{
		Suppliers: make([]string, 0, len(records)),
		Risks:     make([]int, 0, len(records)),
		Amounts:   make([]float64, 0, len(records)),
		Total:     len(records),
	}

	var riskSum int64
	for _, r := range records {
		resp.Suppliers = append(resp.Suppliers, r.Supplier())
		resp.Risks = append(resp.Risks, r.Risk())
		resp.Amounts = append(resp.Amounts, r.Amount().InexactFloat64())
		riskSum += int64(r.Risk())
		if r.Risk() >= uc.highRiskScore {
			resp.HighRisk++
		}
	}

	if len(records) > 0 {
		resp.AvgRisk = decimal.NewFromInt(riskSum).
			Div(decimal.NewFromInt(int64(len(records)))).
			Round(2).
			InexactFloat64()
	}
	return resp, nil
}

// ExportTransactions returns every stored transaction as report rows, oldest first.
type ExportTransactions struct {
	store port.TransactionStore
}

// NewExportTransactions creates a new ExportTransactions use case.
func NewExportTransactions(store port.TransactionStore) *ExportTransactions {
	return &ExportTransactions{store: store}
}

// Execute lists the report rows.
func (uc *ExportTransactions) Execute(ctx context.Context) ([]dto.TransactionRow, error) {
	records, err := uc.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	rows := make([]dto.TransactionRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, dto.FromTransactionRecord(r))
	}
	return rows, nil
}
