package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/supplyshield/riskengine/internal/domain/valueobject"
)

// FinancingEvent is an invoice-financing request submitted to the relationship pipeline.
type FinancingEvent struct {
	invoiceNumber string
	supplier      string
	buyer         string
	lender        string
	amount        decimal.Decimal
}

// NewFinancingEvent validates and creates a FinancingEvent. Every field is required.
func NewFinancingEvent(invoiceNumber string, amount decimal.Decimal, supplier, buyer, lender string) (FinancingEvent, error) {
	var err error
	if invoiceNumber, err = requireText("invoice_no", invoiceNumber); err != nil {
		return FinancingEvent{}, err
	}
	if err = requirePositive(amount); err != nil {
		return FinancingEvent{}, err
	}
	if supplier, err = requireText("supplier", supplier); err != nil {
		return FinancingEvent{}, err
	}
	if buyer, err = requireText("buyer", buyer); err != nil {
		return FinancingEvent{}, err
	}
	if lender, err = requireText("lender", lender); err != nil {
		return FinancingEvent{}, err
	}
	return FinancingEvent{
		invoiceNumber: invoiceNumber,
		amount:        amount,
		supplier:      supplier,
		buyer:         buyer,
		lender:        lender,
	}, nil
}

func (e FinancingEvent) InvoiceNumber() string   { return e.invoiceNumber }
func (e FinancingEvent) Amount() decimal.Decimal { return e.amount }
func (e FinancingEvent) Supplier() string        { return e.supplier }
func (e FinancingEvent) Buyer() string           { return e.buyer }
func (e FinancingEvent) Lender() string          { return e.lender }

// Fingerprint returns the duplicate-detection key of the event.
func (e FinancingEvent) Fingerprint() valueobject.Fingerprint {
	return valueobject.NewFingerprint(e.invoiceNumber, e.amount, e.supplier)
}

// FinancingAssessment is the persisted outcome of scoring a FinancingEvent. Replaying
// assessments oldest first rebuilds the relationship pipeline state.
type FinancingAssessment struct {
	assessedAt  time.Time
	event       FinancingEvent
	fingerprint valueobject.Fingerprint
	verdict     valueobject.Verdict
	rawScore    int
	finalScore  int
	duplicate   bool
	id          uuid.UUID
}

// NewFinancingAssessment records the scoring outcome of an event.
func NewFinancingAssessment(
	event FinancingEvent,
	fingerprint valueobject.Fingerprint,
	rawScore, finalScore int,
	verdict valueobject.Verdict,
	duplicate bool,
) (*FinancingAssessment, error) {
	if finalScore < 0 || finalScore > 100 {
		return nil, fmt.Errorf("risk score must be between 0 and 100, got %d", finalScore)
	}
	if verdict.IsZero() {
		return nil, fmt.Errorf("verdict is required")
	}
	return &FinancingAssessment{
		id:          uuid.New(),
		event:       event,
		fingerprint: fingerprint,
		rawScore:    rawScore,
		finalScore:  finalScore,
		verdict:     verdict,
		duplicate:   duplicate,
		assessedAt:  time.Now().UTC(),
	}, nil
}

// ReconstructFinancingAssessment rebuilds an assessment from persisted data (no validation).
func ReconstructFinancingAssessment(
	id uuid.UUID,
	invoiceNumber string,
	amount decimal.Decimal,
	supplier, buyer, lender string,
	fingerprint valueobject.Fingerprint,
	rawScore, finalScore int,
	verdict valueobject.Verdict,
	duplicate bool,
	assessedAt time.Time,
) *FinancingAssessment {
	return &FinancingAssessment{
		id: id,
		event: FinancingEvent{
			invoiceNumber: invoiceNumber,
			amount:        amount,
			supplier:      supplier,
			buyer:         buyer,
			lender:        lender,
		},
		fingerprint: fingerprint,
		rawScore:    rawScore,
		finalScore:  finalScore,
		verdict:     verdict,
		duplicate:   duplicate,
		assessedAt:  assessedAt,
	}
}

func (a *FinancingAssessment) ID() uuid.UUID                        { return a.id }
func (a *FinancingAssessment) Event() FinancingEvent                { return a.event }
func (a *FinancingAssessment) Fingerprint() valueobject.Fingerprint { return a.fingerprint }
func (a *FinancingAssessment) RawScore() int                        { return a.rawScore }
func (a *FinancingAssessment) FinalScore() int                      { return a.finalScore }
func (a *FinancingAssessment) Verdict() valueobject.Verdict         { return a.verdict }
func (a *FinancingAssessment) Duplicate() bool                      { return a.duplicate }
func (a *FinancingAssessment) AssessedAt() time.Time                { return a.assessedAt }
