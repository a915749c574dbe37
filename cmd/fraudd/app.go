package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/supplyshield/riskengine/internal/application/usecase"
	"github.com/supplyshield/riskengine/internal/domain/port"
	"github.com/supplyshield/riskengine/internal/domain/service"
	"github.com/supplyshield/riskengine/internal/infrastructure/config"
	"github.com/supplyshield/riskengine/internal/infrastructure/graph"
	infrakafka "github.com/supplyshield/riskengine/internal/infrastructure/kafka"
	"github.com/supplyshield/riskengine/internal/infrastructure/postgres"
	"github.com/supplyshield/riskengine/internal/infrastructure/sqlite"
	"github.com/supplyshield/riskengine/internal/presentation/rest"
	"github.com/supplyshield/riskengine/pkg/auth"
	"github.com/supplyshield/riskengine/pkg/events"
	pkgkafka "github.com/supplyshield/riskengine/pkg/kafka"
	"github.com/supplyshield/riskengine/pkg/observability"
	pgutil "github.com/supplyshield/riskengine/pkg/postgres"
)

const kafkaClientID = "riskengine"

// app holds the wired dependencies shared by every command.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    port.Store
	registry *prometheus.Registry
	jwt      *auth.JWTService
	relay    *events.Relay

	scoreTransaction *usecase.ScoreTransaction
	scoreFinancing   *usecase.ScoreFinancingEvent
	importFinancing  *usecase.ImportFinancingEvents
	listFinancing    *usecase.ListFinancingAssessments
	listAlerts       *usecase.ListAlerts
	summary          *usecase.TransactionSummary
	exportRows       *usecase.ExportTransactions
	restore          *usecase.RestoreRelationships

	closers []func(context.Context) error
}

// newApp opens the store and the optional Kafka and Neo4j adapters and builds
// the use cases on top of them.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.store = store
	a.closers = append(a.closers, func(context.Context) error { return store.Close() })

	if cfg.KafkaEnabled() {
		producer, err := pkgkafka.NewProducer(kafkaConfig(cfg))
		if err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("failed to create kafka producer: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return producer.Close() })
		publisher := infrakafka.NewPublisher(producer, cfg.KafkaTopic, logger)
		a.relay = events.NewRelay(store, publisher, events.RelayConfig{Interval: cfg.OutboxInterval}, logger)
		logger.Info("relaying outbox events to kafka", "topic", cfg.KafkaTopic)
	}

	var projector port.GraphProjector
	if cfg.GraphEnabled() {
		if p := a.openProjector(ctx); p != nil {
			projector = p
		}
	}

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	opts := []usecase.Option{usecase.WithLogger(logger)}
	if cfg.MetricsEnabled {
		opts = append(opts, usecase.WithMetrics(observability.NewScoringMetrics(a.registry)))
	}

	s := cfg.Scoring
	engine := service.NewRiskEngine(service.UniformNoise{})
	alerts := service.NewAlertPolicy(s.AlertThreshold)
	relationships := service.NewRelationshipScorer()

	a.scoreTransaction = usecase.NewScoreTransaction(store, service.NewHistoryScorer(), engine, alerts,
		s.HistoryNoiseMax, opts...)
	a.scoreFinancing = usecase.NewScoreFinancingEvent(store, projector, relationships, engine,
		service.NewFraudPolicy(s.FraudThreshold), s.RelationshipNoiseMax, opts...)
	a.importFinancing = usecase.NewImportFinancingEvents(a.scoreFinancing, logger)
	a.listFinancing = usecase.NewListFinancingAssessments(store)
	a.listAlerts = usecase.NewListAlerts(store)
	a.summary = usecase.NewTransactionSummary(store, s.AlertThreshold)
	a.exportRows = usecase.NewExportTransactions(store)
	a.restore = usecase.NewRestoreRelationships(store, relationships, logger)

	if cfg.AuthEnabled() {
		a.jwt, err = auth.NewJWTService(auth.JWTConfig{
			Secret:     cfg.JWTSecret,
			Issuer:     cfg.JWTIssuer,
			Expiration: cfg.JWTExpiry,
		})
		if err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("failed to configure authentication: %w", err)
		}
	}

	return a, nil
}

// openStore opens the configured store. The postgres schema is migrated first.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.Store, error) {
	switch strings.ToLower(cfg.StoreDriver) {
	case config.StoreDriverPostgres:
		if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		pool, err := pgutil.NewPool(dbCtx, pgutil.Config{URL: cfg.DatabaseURL})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		logger.Info("connected to database", "driver", config.StoreDriverPostgres)
		return postgres.NewStore(pool), nil
	default:
		store, err := sqlite.New(cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		logger.Info("opened database", "driver", config.StoreDriverSQLite, "path", cfg.SQLitePath)
		return store, nil
	}
}

// openProjector connects to Neo4j. A graph that cannot be reached is logged and
// left out, since projection never decides a verdict.
func (a *app) openProjector(ctx context.Context) *graph.Projector {
	client, err := graph.NewNeo4jClient(ctx, graph.Options{
		URI:      a.cfg.GraphURI,
		Database: a.cfg.GraphDatabase,
		Username: a.cfg.GraphUser,
		Password: a.cfg.GraphPassword,
	})
	if err != nil {
		a.logger.Warn("graph projection disabled", "error", err)
		return nil
	}
	projector := graph.NewProjector(client)
	if err := projector.EnsureSchema(ctx); err != nil {
		a.logger.Warn("failed to ensure graph schema", "error", err)
	}
	a.closers = append(a.closers, projector.Close)
	a.logger.Info("projecting financing edges to neo4j", "uri", a.cfg.GraphURI)
	return projector
}

func kafkaConfig(cfg *config.Config) pkgkafka.Config {
	return pkgkafka.Config{
		ClientID:      kafkaClientID,
		ConsumerGroup: cfg.KafkaConsumerGroup,
		SASLMechanism: cfg.KafkaSASLMechanism,
		SASLUsername:  cfg.KafkaSASLUsername,
		SASLPassword:  cfg.KafkaSASLPassword,
		Brokers:       cfg.KafkaBrokers,
		TLS:           cfg.KafkaTLS,
		SASLEnabled:   cfg.KafkaSASLMechanism != "",
	}
}

// flushOutbox publishes whatever the outbox holds. It is a no-op without Kafka.
func (a *app) flushOutbox(ctx context.Context) error {
	if a.relay == nil {
		return nil
	}
	n, err := a.relay.Drain(ctx)
	if err != nil {
		return fmt.Errorf("failed to flush outbox: %w", err)
	}
	a.logger.Info("flushed outbox", "published", n)
	return nil
}

// restoreRelationships rebuilds the fingerprint set and graph from stored
// assessments.
func (a *app) restoreRelationships(ctx context.Context) error {
	n, err := a.restore.Execute(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore relationship state: %w", err)
	}
	a.logger.Info("restored relationship state", "assessments", n)
	return nil
}

func (a *app) useCases() rest.UseCases {
	return rest.UseCases{
		ScoreTransaction:  a.scoreTransaction,
		ScoreFinancing:    a.scoreFinancing,
		ImportFinancing:   a.importFinancing,
		ListFinancing:     a.listFinancing,
		ListAlerts:        a.listAlerts,
		Summary:           a.summary,
		ExportTransaction: a.exportRows,
	}
}

// operatorLogin returns nil when authentication is off.
func (a *app) operatorLogin() *auth.OperatorLogin {
	if a.jwt == nil {
		return nil
	}
	return auth.NewOperatorLogin(a.jwt, a.cfg.OperatorUsername, a.cfg.OperatorPassword)
}

// Close releases adapters in reverse order of opening.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
