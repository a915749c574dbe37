package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplyshield/riskengine/internal/domain/errs"
	"github.com/supplyshield/riskengine/internal/domain/model"
	"github.com/supplyshield/riskengine/internal/domain/valueobject"
)

func TestParseAmount(t *testing.T) {
	amount, err := model.ParseAmount(" 12000.50 ")
	require.NoError(t, err)
	assert.True(t, amount.Equal(decimal.RequireFromString("12000.5")))

	_, err = model.ParseAmount("")
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Contains(t, err.Error(), "is required")

	_, err = model.ParseAmount("twelve")
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Contains(t, err.Error(), "must be numeric")
}

func TestParseAmount_Range(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{name: "huge exponent", raw: "1e20000000"},
		{name: "tiny exponent", raw: "1e-20000000"},
		{name: "exponent just past bound", raw: "1e19"},
		{name: "too many digits", raw: "123456789012345678901234567890123456789"},
		{name: "exponent at bound", raw: "1e18", ok: true},
		{name: "fraction at bound", raw: "0.000000000000000001", ok: true},
		{name: "ordinary", raw: "150000.0", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.ParseAmount(tt.raw)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errs.IsValidation(err))
			assert.Contains(t, err.Error(), "out of range")
		})
	}
}

func TestNewTransaction_RejectsOutOfRangeAmount(t *testing.T) {
	_, err := model.NewTransaction("Acme", decimal.New(1, 20000000))
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))

	_, err = model.NewFinancingEvent("INV1", decimal.New(1, 20000000), "S1", "B1", "L1")
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestNewTransaction(t *testing.T) {
	tx, err := model.NewTransaction("  Acme ", decimal.NewFromInt(12000))
	require.NoError(t, err)
	assert.Equal(t, "Acme", tx.Supplier())
	assert.True(t, tx.Amount().Equal(decimal.NewFromInt(12000)))
	assert.False(t, tx.OccurredAt().IsZero())
}

func TestNewTransaction_Validation(t *testing.T) {
	tests := []struct {
		name     string
		supplier string
		amount   decimal.Decimal
		wantErr  string
	}{
		{name: "empty supplier", supplier: " ", amount: decimal.NewFromInt(10), wantErr: "supplier: is required"},
		{name: "zero amount", supplier: "Acme", amount: decimal.Zero, wantErr: "amount: must be positive"},
		{name: "negative amount", supplier: "Acme", amount: decimal.NewFromInt(-5), wantErr: "amount: must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.NewTransaction(tt.supplier, tt.amount)
			require.Error(t, err)
			assert.True(t, errs.IsValidation(err))
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestNewTransactionRecord(t *testing.T) {
	tx, err := model.NewTransaction("Acme", decimal.NewFromInt(800))
	require.NoError(t, err)

	rec, err := model.NewTransactionRecord(tx, 42)
	require.NoError(t, err)
	assert.Equal(t, "Acme", rec.Supplier())
	assert.Equal(t, 42, rec.Risk())
	assert.Equal(t, tx.OccurredAt(), rec.RecordedAt())
	assert.Equal(t, model.HistoryEntry{Amount: decimal.NewFromInt(800), Risk: 42}, rec.HistoryEntry())

	_, err = model.NewTransactionRecord(tx, 101)
	assert.Error(t, err)
	_, err = model.NewTransactionRecord(tx, -1)
	assert.Error(t, err)
}

func TestNewFinancingEvent_Validation(t *testing.T) {
	amount := decimal.NewFromInt(1000)
	tests := []struct {
		name    string
		invoice string
		amount  decimal.Decimal
		sup     string
		buyer   string
		lender  string
		field   string
	}{
		{name: "missing invoice", invoice: "", amount: amount, sup: "S1", buyer: "B1", lender: "L1", field: "invoice_no"},
		{name: "zero amount", invoice: "INV1", amount: decimal.Zero, sup: "S1", buyer: "B1", lender: "L1", field: "amount"},
		{name: "missing supplier", invoice: "INV1", amount: amount, sup: "", buyer: "B1", lender: "L1", field: "supplier"},
		{name: "missing buyer", invoice: "INV1", amount: amount, sup: "S1", buyer: "", lender: "L1", field: "buyer"},
		{name: "missing lender", invoice: "INV1", amount: amount, sup: "S1", buyer: "B1", lender: "", field: "lender"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.NewFinancingEvent(tt.invoice, tt.amount, tt.sup, tt.buyer, tt.lender)
			require.Error(t, err)
			assert.True(t, errs.IsValidation(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestFinancingAssessment(t *testing.T) {
	ev, err := model.NewFinancingEvent("INV1", decimal.NewFromInt(150000), "S1", "B1", "L1")
	require.NoError(t, err)

	a, err := model.NewFinancingAssessment(ev, ev.Fingerprint(), 90, 100, valueobject.VerdictFraud, true)
	require.NoError(t, err)
	assert.Equal(t, "INV1", a.Event().InvoiceNumber())
	assert.True(t, a.Fingerprint().Equal(ev.Fingerprint()))
	assert.Equal(t, 90, a.RawScore())
	assert.Equal(t, 100, a.FinalScore())
	assert.True(t, a.Duplicate())
	assert.True(t, a.Verdict().Equal(valueobject.VerdictFraud))

	_, err = model.NewFinancingAssessment(ev, ev.Fingerprint(), 90, 120, valueobject.VerdictFraud, true)
	assert.Error(t, err)
	_, err = model.NewFinancingAssessment(ev, ev.Fingerprint(), 20, 20, valueobject.Verdict{}, false)
	assert.Error(t, err)
}
