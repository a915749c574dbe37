package valueobject_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplyshield/riskengine/internal/domain/valueobject"
)

func TestVerdictFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected valueobject.Verdict
		adverse  bool
	}{
		{input: "ALERT", expected: valueobject.VerdictAlert, adverse: true},
		{input: "CLEAR", expected: valueobject.VerdictClear},
		{input: "FRAUD", expected: valueobject.VerdictFraud, adverse: true},
		{input: "SAFE", expected: valueobject.VerdictSafe},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := valueobject.VerdictFromString(tt.input)
			require.NoError(t, err)
			assert.True(t, v.Equal(tt.expected))
			assert.Equal(t, tt.input, v.String())
			assert.Equal(t, tt.adverse, v.IsAdverse())
		})
	}

	_, err := valueobject.VerdictFromString("MAYBE")
	assert.Error(t, err)
	assert.True(t, valueobject.Verdict{}.IsZero())
}

func TestPipelineKindFromString(t *testing.T) {
	p, err := valueobject.PipelineKindFromString("history")
	require.NoError(t, err)
	assert.True(t, p.Equal(valueobject.PipelineHistory))

	p, err = valueobject.PipelineKindFromString("relationship")
	require.NoError(t, err)
	assert.True(t, p.Equal(valueobject.PipelineRelationship))

	_, err = valueobject.PipelineKindFromString("graph")
	assert.Error(t, err)
}

func TestCanonicalAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "150000", expected: "150000.0"},
		{input: "150000.00", expected: "150000.0"},
		{input: "1234.50", expected: "1234.5"},
		{input: "0.1", expected: "0.1"},
		{input: "1.5e3", expected: "1500.0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, valueobject.CanonicalAmount(decimal.RequireFromString(tt.input)))
		})
	}
}

func TestFingerprint_Deterministic(t *testing.T) {
	amount := decimal.NewFromInt(150000)

	a := valueobject.NewFingerprint("INV1", amount, "S1")
	b := valueobject.NewFingerprint("INV1", decimal.RequireFromString("150000.00"), "S1")

	assert.True(t, a.Equal(b))
	assert.Len(t, a.String(), 64)
	// sha256("INV1150000.0S1")
	assert.Equal(t, "f28372a9c686efb5c77f787bcd0c2776a1b481b7ee79050ad46252cf27797775", a.String())
}

func TestFingerprint_AnyFieldChangesDigest(t *testing.T) {
	base := valueobject.NewFingerprint("INV1", decimal.NewFromInt(500), "S1")

	assert.False(t, base.Equal(valueobject.NewFingerprint("INV2", decimal.NewFromInt(500), "S1")))
	assert.False(t, base.Equal(valueobject.NewFingerprint("INV1", decimal.NewFromInt(501), "S1")))
	assert.False(t, base.Equal(valueobject.NewFingerprint("INV1", decimal.NewFromInt(500), "S2")))
}

func TestFingerprintFromString(t *testing.T) {
	original := valueobject.NewFingerprint("INV9", decimal.NewFromInt(42), "Acme")

	parsed, err := valueobject.FingerprintFromString(original.String())
	require.NoError(t, err)
	assert.True(t, original.Equal(parsed))

	_, err = valueobject.FingerprintFromString("abc")
	assert.Error(t, err)

	_, err = valueobject.FingerprintFromString(string(make([]byte, 64)))
	assert.Error(t, err)
}
