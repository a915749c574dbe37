package service

import (
	"github.com/shopspring/decimal"

	"github.com/supplyshield/riskengine/internal/domain/model"
)

var (
	highValueThreshold = decimal.NewFromInt(10000)
	midValueThreshold  = decimal.NewFromInt(5000)
	deviationFactor    = decimal.NewFromInt(2)
)

const (
	highValuePoints    = 40
	midValuePoints     = 25
	baseValuePoints    = 10
	deviationPoints    = 20
	priorHighRiskScore = 70
	repeatOffenderStep = 5
)

// HistoryScorer scores a supplier payment against the supplier's own history.
// Rules are additive and independent of history order; the result is not clamped.
type HistoryScorer struct{}

// NewHistoryScorer creates a new HistoryScorer instance.
func NewHistoryScorer() *HistoryScorer {
	return &HistoryScorer{}
}

// Score evaluates amount against history.
func (s *HistoryScorer) Score(amount decimal.Decimal, history []model.HistoryEntry) RiskOutput {
	out := RiskOutput{Signals: make([]string, 0)}

	// Rule: amount tier.
	switch {
	case amount.GreaterThan(highValueThreshold):
		out.add(highValuePoints, "high_value")
	case amount.GreaterThan(midValueThreshold):
		out.add(midValuePoints, "mid_value")
	default:
		out.add(baseValuePoints, "base_value")
	}

	if len(history) == 0 {
		return out
	}

	// Rule: amount more than twice the supplier's mean.
	if exceedsMean(amount, history, deviationFactor) {
		out.add(deviationPoints, "amount_deviation")
	}

	// Rule: every prior high-risk record adds a step, uncapped.
	for _, h := range history {
		if h.Risk > priorHighRiskScore {
			out.add(repeatOffenderStep, "prior_high_risk")
		}
	}

	return out
}

// exceedsMean reports amount > factor * mean(history) without dividing, so
// repeating means compare exactly.
func exceedsMean(amount decimal.Decimal, history []model.HistoryEntry, factor decimal.Decimal) bool {
	sum := decimal.Zero
	for _, h := range history {
		sum = sum.Add(h.Amount)
	}
	n := decimal.NewFromInt(int64(len(history)))
	return amount.Mul(n).GreaterThan(sum.Mul(factor))
}
