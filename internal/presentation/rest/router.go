package rest

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/supplyshield/riskengine/pkg/auth"
	"github.com/supplyshield/riskengine/pkg/observability"
)

// RouterConfig wires the HTTP surface.
type RouterConfig struct {
	// JWT guards every /api/v1 route except login when set.
	JWT *auth.JWTService
	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer
	Health   *HealthHandler
	API      *APIHandler
	Logger   *slog.Logger
}

// NewRouter builds the HTTP handler.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	cfg.Health.RegisterRoutes(mux)

	if cfg.Gatherer != nil {
		mux.Handle("GET /metrics", observability.MetricsHandler(cfg.Gatherer))
	}

	guard := func(h http.HandlerFunc) http.Handler { return h }
	if cfg.JWT != nil {
		mw := auth.HTTPMiddleware(cfg.JWT)
		guard = func(h http.HandlerFunc) http.Handler { return mw(h) }
		mux.HandleFunc("POST /api/v1/login", cfg.API.Login)
	} else {
		cfg.Logger.Warn("HTTP authentication disabled")
	}

	api := cfg.API
	mux.Handle("POST /api/v1/transactions", guard(api.ScoreTransaction))
	mux.Handle("GET /api/v1/transactions/summary", guard(api.TransactionSummary))
	mux.Handle("GET /api/v1/reports/transactions.csv", guard(api.ExportTransactions))
	mux.Handle("GET /api/v1/alerts", guard(api.ListAlerts))
	mux.Handle("POST /api/v1/financing-events", guard(api.ScoreFinancingEvent))
	mux.Handle("GET /api/v1/financing-events", guard(api.ListFinancingAssessments))
	mux.Handle("POST /api/v1/financing-events/import", guard(api.ImportFinancingEvents))

	return LoggingMiddleware(cfg.Logger)(mux)
}
