package testutil

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/supplyshield/riskengine/internal/domain/model"
	"github.com/supplyshield/riskengine/internal/domain/valueobject"
)

// Fixed values for deterministic tests.
var (
	BaseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// FingerprintINV1 is the fingerprint of invoice INV1 for 150000 from S1.
	FingerprintINV1 = "f28372a9c686efb5c77f787bcd0c2776a1b481b7ee79050ad46252cf27797775"
)

// TransactionRecord builds a stored record for supplier.
func TransactionRecord(t *testing.T, supplier, amount string, risk int) *model.TransactionRecord {
	t.Helper()

	tx, err := model.NewTransaction(supplier, decimal.RequireFromString(amount))
	RequireNoError(t, err)
	rec, err := model.NewTransactionRecord(tx, risk)
	RequireNoError(t, err)
	return rec
}

// FinancingEvent builds a valid financing event.
func FinancingEvent(t *testing.T, invoice, amount, supplier, buyer, lender string) model.FinancingEvent {
	t.Helper()

	event, err := model.NewFinancingEvent(invoice, decimal.RequireFromString(amount), supplier, buyer, lender)
	RequireNoError(t, err)
	return event
}

// FinancingAssessment builds an assessment of event with the given scores.
func FinancingAssessment(t *testing.T, event model.FinancingEvent, raw, final int, verdict valueobject.Verdict, duplicate bool) *model.FinancingAssessment {
	t.Helper()

	a, err := model.NewFinancingAssessment(event, event.Fingerprint(), raw, final, verdict, duplicate)
	RequireNoError(t, err)
	return a
}
