package service

import (
	"fmt"
	"time"

	"github.com/supplyshield/riskengine/internal/domain/model"
	"github.com/supplyshield/riskengine/internal/domain/valueobject"
)

const (
	// DefaultAlertThreshold is the history pipeline's alert score (inclusive).
	DefaultAlertThreshold = 80
	// DefaultFraudThreshold is the relationship pipeline's FRAUD cut-off (exclusive).
	DefaultFraudThreshold = 60
	// DefaultHistoryNoiseMax bounds the history pipeline's noise term.
	DefaultHistoryNoiseMax = 10
	// DefaultRelationshipNoiseMax bounds the relationship pipeline's noise term.
	DefaultRelationshipNoiseMax = 20
)

// Policy classifies a final score into a verdict.
type Policy interface {
	Classify(final int) valueobject.Verdict
}

// AlertPolicy is the history pipeline's classification: a score at or above the
// threshold raises an alert.
type AlertPolicy struct {
	threshold int
}

// NewAlertPolicy creates an AlertPolicy with the given inclusive threshold.
func NewAlertPolicy(threshold int) *AlertPolicy {
	return &AlertPolicy{threshold: threshold}
}

// Threshold returns the inclusive alert score.
func (p *AlertPolicy) Threshold() int { return p.threshold }

// ShouldAlert reports whether final must raise an alert.
func (p *AlertPolicy) ShouldAlert(final int) bool {
	return final >= p.threshold
}

// Classify implements Policy.
func (p *AlertPolicy) Classify(final int) valueobject.Verdict {
	if p.ShouldAlert(final) {
		return valueobject.VerdictAlert
	}
	return valueobject.VerdictClear
}

// NewAlert builds the alert raised for supplier at the given score.
func (p *AlertPolicy) NewAlert(supplier string, score int, at time.Time) *model.Alert {
	return model.NewAlert(supplier, score, AlertMessage(supplier), at)
}

// AlertMessage formats the fixed alert message for a supplier.
func AlertMessage(supplier string) string {
	return fmt.Sprintf("⚠ High Risk Transaction Detected for %s", supplier)
}

// FraudPolicy is the relationship pipeline's classification: FRAUD strictly above
// the threshold, SAFE otherwise.
type FraudPolicy struct {
	threshold int
}

// NewFraudPolicy creates a FraudPolicy with the given exclusive threshold.
func NewFraudPolicy(threshold int) *FraudPolicy {
	return &FraudPolicy{threshold: threshold}
}

// Classify implements Policy.
func (p *FraudPolicy) Classify(final int) valueobject.Verdict {
	if final > p.threshold {
		return valueobject.VerdictFraud
	}
	return valueobject.VerdictSafe
}

// Pipeline couples a noise bound with a classification policy.
type Pipeline struct {
	Policy   Policy
	Kind     valueobject.PipelineKind
	NoiseMax int
}

// HistoryPipeline builds the history pipeline (default noise 0..10, alert at 80).
func HistoryPipeline(noiseMax int, alerts *AlertPolicy) Pipeline {
	return Pipeline{Kind: valueobject.PipelineHistory, NoiseMax: noiseMax, Policy: alerts}
}

// RelationshipPipeline builds the relationship pipeline (default noise 0..20, FRAUD above 60).
func RelationshipPipeline(noiseMax int, fraud *FraudPolicy) Pipeline {
	return Pipeline{Kind: valueobject.PipelineRelationship, NoiseMax: noiseMax, Policy: fraud}
}
