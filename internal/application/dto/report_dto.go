package dto

import (
	"time"

	"github.com/supplyshield/riskengine/internal/domain/model"
)

// AlertResponse is the display form of an alert.
type AlertResponse struct {
	Date     time.Time `json:"date"`
	Supplier string    `json:"supplier"`
	Message  string    `json:"message"`
	Risk     int       `json:"risk"`
}

// FromAlert maps an alert to the response DTO.
func FromAlert(a *model.Alert) AlertResponse {
	return AlertResponse{
		Supplier: a.Supplier(),
		Risk:     a.Score(),
		Message:  a.Message(),
		Date:     a.CreatedAt(),
	}
}

// TransactionSummaryResponse aggregates every stored transaction for charting.
// Slices are index-aligned, oldest first.
type TransactionSummaryResponse struct {
	Suppliers []string  `json:"suppliers"`
	Risks     []int     `json:"risks"`
	Amounts   []float64 `json:"amounts"`
	Total     int       `json:"total"`
	HighRisk  int       `json:"high_risk"`
	AvgRisk   float64   `json:"avg_risk"`
}

// TransactionRow is one line of the transaction report.
type TransactionRow struct {
	Date     time.Time
	Supplier string
	Amount   string
	Risk     int
}

// FromTransactionRecord maps a record to a report row.
func FromTransactionRecord(r *model.TransactionRecord) TransactionRow {
	return TransactionRow{
		Supplier: r.Supplier(),
		Amount:   r.Amount().String(),
		Risk:     r.Risk(),
		Date:     r.RecordedAt(),
	}
}
