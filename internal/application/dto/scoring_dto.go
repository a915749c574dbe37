package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/supplyshield/riskengine/internal/domain/model"
)

// ScoreTransactionRequest is the input DTO for the ScoreTransaction use case.
// Amount is kept textual so non-numeric input surfaces as a validation error.
type ScoreTransactionRequest struct {
	Supplier string `json:"supplier"`
	Amount   string `json:"amount"`
}

// ScoreTransactionResponse is the output DTO of the history pipeline.
type ScoreTransactionResponse struct {
	RecordedAt time.Time `json:"recorded_at"`
	Signals    []string  `json:"signals"`
	ID         uuid.UUID `json:"id"`
	Supplier   string    `json:"supplier"`
	Amount     string    `json:"amount"`
	Risk       int       `json:"risk"`
	Alert      bool      `json:"alert"`
}

// ScoreFinancingRequest is the input DTO for the ScoreFinancingEvent use case.
type ScoreFinancingRequest struct {
	InvoiceNo string `json:"invoice_no"`
	Amount    string `json:"amount"`
	Supplier  string `json:"supplier"`
	Buyer     string `json:"buyer"`
	Lender    string `json:"lender"`
}

// FinancingAssessmentResponse is the output DTO of the relationship pipeline.
type FinancingAssessmentResponse struct {
	AssessedAt  time.Time `json:"assessed_at"`
	Signals     []string  `json:"signals,omitempty"`
	ID          uuid.UUID `json:"id"`
	InvoiceNo   string    `json:"invoice_no"`
	Amount      string    `json:"amount"`
	Supplier    string    `json:"supplier"`
	Buyer       string    `json:"buyer"`
	Lender      string    `json:"lender"`
	Fingerprint string    `json:"fingerprint"`
	Status      string    `json:"status"`
	RiskScore   int       `json:"risk_score"`
	Duplicate   bool      `json:"duplicate"`
}

// FromFinancingAssessment maps an assessment to the response DTO.
func FromFinancingAssessment(a *model.FinancingAssessment) FinancingAssessmentResponse {
	event := a.Event()
	return FinancingAssessmentResponse{
		ID:          a.ID(),
		InvoiceNo:   event.InvoiceNumber(),
		Amount:      event.Amount().String(),
		Supplier:    event.Supplier(),
		Buyer:       event.Buyer(),
		Lender:      event.Lender(),
		Fingerprint: a.Fingerprint().String(),
		Status:      a.Verdict().String(),
		RiskScore:   a.FinalScore(),
		Duplicate:   a.Duplicate(),
		AssessedAt:  a.AssessedAt(),
	}
}

// ImportRow is one parsed line of a financing batch. ParseError is set when the
// line could not be mapped to a request.
type ImportRow struct {
	ParseError string
	Request    ScoreFinancingRequest
	Line       int
}

// ImportRowResult is the outcome of one batch line.
type ImportRowResult struct {
	Assessment *FinancingAssessmentResponse `json:"assessment,omitempty"`
	Error      string                       `json:"error,omitempty"`
	InvoiceNo  string                       `json:"invoice_no"`
	Line       int                          `json:"line"`
}

// ImportResult summarizes a financing batch.
type ImportResult struct {
	Rows      []ImportRowResult `json:"rows"`
	Processed int               `json:"processed"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Fraud     int               `json:"fraud"`
}
