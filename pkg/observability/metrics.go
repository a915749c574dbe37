package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ScoringMetrics holds the risk engine's Prometheus collectors. A nil
// *ScoringMetrics is valid and records nothing.
type ScoringMetrics struct {
	scores     *prometheus.HistogramVec
	verdicts   *prometheus.CounterVec
	alerts     prometheus.Counter
	duplicates prometheus.Counter
	failures   *prometheus.CounterVec
}

// NewScoringMetrics registers the scoring collectors with registry.
func NewScoringMetrics(registry prometheus.Registerer) *ScoringMetrics {
	factory := promauto.With(registry)

	return &ScoringMetrics{
		scores: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "riskengine_final_score",
			Help:    "Distribution of final risk scores by pipeline",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}, []string{"pipeline"}),
		verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "riskengine_verdicts_total",
			Help: "Total number of verdicts by pipeline and verdict",
		}, []string{"pipeline", "verdict"}),
		alerts: factory.NewCounter(prometheus.CounterOpts{
			Name: "riskengine_alerts_total",
			Help: "Total number of high risk alerts raised",
		}),
		duplicates: factory.NewCounter(prometheus.CounterOpts{
			Name: "riskengine_duplicate_fingerprints_total",
			Help: "Total number of financing events with an already seen fingerprint",
		}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "riskengine_scoring_failures_total",
			Help: "Total number of scoring calls that failed, by pipeline and reason",
		}, []string{"pipeline", "reason"}),
	}
}

// ObserveScore records a final score and its verdict.
func (m *ScoringMetrics) ObserveScore(pipeline, verdict string, final int) {
	if m == nil {
		return
	}
	m.scores.WithLabelValues(pipeline).Observe(float64(final))
	m.verdicts.WithLabelValues(pipeline, verdict).Inc()
}

// IncAlert counts a raised alert.
func (m *ScoringMetrics) IncAlert() {
	if m == nil {
		return
	}
	m.alerts.Inc()
}

// IncDuplicate counts a duplicate fingerprint.
func (m *ScoringMetrics) IncDuplicate() {
	if m == nil {
		return
	}
	m.duplicates.Inc()
}

// IncFailure counts a failed scoring call.
func (m *ScoringMetrics) IncFailure(pipeline, reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(pipeline, reason).Inc()
}

// MetricsHandler serves the given gatherer in the Prometheus text format.
func MetricsHandler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
