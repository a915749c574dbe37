package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/supplyshield/riskengine/internal/domain/model"
	"github.com/supplyshield/riskengine/internal/domain/service"
)

func entry(amount int64, risk int) model.HistoryEntry {
	return model.HistoryEntry{Amount: decimal.NewFromInt(amount), Risk: risk}
}

func amountOf(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestHistoryScorer_AmountTiers(t *testing.T) {
	scorer := service.NewHistoryScorer()

	tests := []struct {
		name   string
		amount decimal.Decimal
		want   int
		signal string
	}{
		{name: "small", amount: decimal.NewFromInt(100), want: 10, signal: "base_value"},
		{name: "at mid boundary", amount: decimal.NewFromInt(5000), want: 10, signal: "base_value"},
		{name: "just above mid", amount: decimal.RequireFromString("5000.01"), want: 25, signal: "mid_value"},
		{name: "at high boundary", amount: decimal.NewFromInt(10000), want: 25, signal: "mid_value"},
		{name: "high", amount: decimal.NewFromInt(12000), want: 40, signal: "high_value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := scorer.Score(tt.amount, nil)
			assert.Equal(t, tt.want, out.Score)
			assert.Equal(t, []string{tt.signal}, out.Signals)
		})
	}
}

func TestHistoryScorer_Deviation(t *testing.T) {
	scorer := service.NewHistoryScorer()
	history := []model.HistoryEntry{entry(1000, 10), entry(3000, 10)}

	// mean 2000, twice the mean is 4000
	out := scorer.Score(decimal.NewFromInt(4001), history)
	assert.Equal(t, 30, out.Score)
	assert.Contains(t, out.Signals, "amount_deviation")

	out = scorer.Score(decimal.NewFromInt(4000), history)
	assert.Equal(t, 10, out.Score)
	assert.NotContains(t, out.Signals, "amount_deviation")
}

func TestHistoryScorer_DeviationRepeatingMean(t *testing.T) {
	scorer := service.NewHistoryScorer()
	// mean 4/3, twice the mean is 2.666...
	history := []model.HistoryEntry{entry(1, 10), entry(1, 10), entry(2, 10)}

	below := decimal.RequireFromString("2.66666666666666665")
	assert.Equal(t, 10, scorer.Score(below, history).Score)

	above := decimal.RequireFromString("2.66666666666666667")
	out := scorer.Score(above, history)
	assert.Equal(t, 30, out.Score)
	assert.Contains(t, out.Signals, "amount_deviation")
}

func TestHistoryScorer_PriorHighRisk(t *testing.T) {
	scorer := service.NewHistoryScorer()
	history := []model.HistoryEntry{
		entry(100, 71),
		entry(100, 70),
		entry(100, 95),
		entry(100, 20),
	}

	out := scorer.Score(decimal.NewFromInt(100), history)
	assert.Equal(t, 20, out.Score)
}

func TestHistoryScorer_UncappedRepeatOffender(t *testing.T) {
	scorer := service.NewHistoryScorer()
	history := make([]model.HistoryEntry, 30)
	for i := range history {
		history[i] = entry(20000, 90)
	}

	out := scorer.Score(decimal.NewFromInt(20000), history)
	assert.Equal(t, 40+30*5, out.Score)
}

func TestHistoryScorer_OrderIndependent(t *testing.T) {
	scorer := service.NewHistoryScorer()
	forward := []model.HistoryEntry{entry(500, 80), entry(1500, 10), entry(9000, 75)}
	reversed := []model.HistoryEntry{forward[2], forward[1], forward[0]}

	amount := decimal.NewFromInt(8000)
	assert.Equal(t, scorer.Score(amount, forward).Score, scorer.Score(amount, reversed).Score)
}
