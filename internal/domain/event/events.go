package event

import (
	"github.com/supplyshield/riskengine/internal/domain/model"
	"github.com/supplyshield/riskengine/pkg/events"
)

const (
	// EventTypeTransactionScored is emitted when a supplier payment has been scored and recorded.
	EventTypeTransactionScored = "fraud.transaction.scored"

	// EventTypeAlertRaised is emitted when a score reaches the alert threshold.
	EventTypeAlertRaised = "fraud.alert.raised"

	// EventTypeFinancingAssessed is emitted when a financing event has been scored.
	EventTypeFinancingAssessed = "fraud.financing.assessed"
)

// TransactionScored is published once a history-pipeline record is durable.
type TransactionScored struct {
	events.Header
	Supplier string `json:"supplier"`
	Amount   string `json:"amount"`
	Risk     int    `json:"risk"`
	Alerted  bool   `json:"alerted"`
}

// NewTransactionScored builds the event for a stored record.
func NewTransactionScored(rec *model.TransactionRecord, alerted bool) TransactionScored {
	return TransactionScored{
		Header:   events.NewHeader(EventTypeTransactionScored, rec.ID(), "TransactionRecord"),
		Supplier: rec.Supplier(),
		Amount:   rec.Amount().String(),
		Risk:     rec.Risk(),
		Alerted:  alerted,
	}
}

// PartitionKey keys the event by supplier.
func (e TransactionScored) PartitionKey() string { return e.Supplier }

// AlertRaised is published for every persisted alert.
type AlertRaised struct {
	events.Header
	Supplier string `json:"supplier"`
	Message  string `json:"message"`
	Score    int    `json:"score"`
}

// NewAlertRaised builds the event for a stored alert.
func NewAlertRaised(alert *model.Alert) AlertRaised {
	return AlertRaised{
		Header:   events.NewHeader(EventTypeAlertRaised, alert.ID(), "Alert"),
		Supplier: alert.Supplier(),
		Message:  alert.Message(),
		Score:    alert.Score(),
	}
}

// PartitionKey keys the event by supplier.
func (e AlertRaised) PartitionKey() string { return e.Supplier }

// FinancingAssessed is published once a relationship-pipeline assessment is durable.
type FinancingAssessed struct {
	events.Header
	InvoiceNumber string `json:"invoice_no"`
	Supplier      string `json:"supplier"`
	Buyer         string `json:"buyer"`
	Lender        string `json:"lender"`
	Amount        string `json:"amount"`
	Fingerprint   string `json:"fingerprint"`
	Status        string `json:"status"`
	RiskScore     int    `json:"risk_score"`
	Duplicate     bool   `json:"duplicate"`
}

// NewFinancingAssessed builds the event for a stored assessment.
func NewFinancingAssessed(a *model.FinancingAssessment) FinancingAssessed {
	ev := a.Event()
	return FinancingAssessed{
		Header:        events.NewHeader(EventTypeFinancingAssessed, a.ID(), "FinancingAssessment"),
		InvoiceNumber: ev.InvoiceNumber(),
		Supplier:      ev.Supplier(),
		Buyer:         ev.Buyer(),
		Lender:        ev.Lender(),
		Amount:        ev.Amount().String(),
		Fingerprint:   a.Fingerprint().String(),
		Status:        a.Verdict().String(),
		RiskScore:     a.FinalScore(),
		Duplicate:     a.Duplicate(),
	}
}

// PartitionKey keys the event by supplier.
func (e FinancingAssessed) PartitionKey() string { return e.Supplier }

var (
	_ events.DomainEvent = TransactionScored{}
	_ events.DomainEvent = AlertRaised{}
	_ events.DomainEvent = FinancingAssessed{}
)
