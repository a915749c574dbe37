package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	infrakafka "github.com/supplyshield/riskengine/internal/infrastructure/kafka"
	grpcpresentation "github.com/supplyshield/riskengine/internal/presentation/grpc"
	"github.com/supplyshield/riskengine/internal/presentation/rest"
	pkgkafka "github.com/supplyshield/riskengine/pkg/kafka"
	"github.com/supplyshield/riskengine/pkg/observability"
)

func serveCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the gRPC and HTTP APIs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), opts)
		},
	}
}

func serve(parent context.Context, opts *globalOptions) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, logger, err := loadConfig(opts, os.Stdout)
	if err != nil {
		return err
	}
	if _, err := maxprocs.Set(maxprocs.Logger(slogPrintf)); err != nil {
		logger.Warn("failed to set GOMAXPROCS", "error", err)
	}

	logger.Info("starting "+programName,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"store", cfg.StoreDriver,
	)

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: programName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		shutdownTracer = func(context.Context) error { return nil }
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if cfg.RestoreOnStartup {
		if err := a.restoreRelationships(ctx); err != nil {
			_ = a.Close(context.Background())
			return err
		}
	}

	grpcHandler := grpcpresentation.NewRiskServiceHandler(a.scoreTransaction, a.scoreFinancing, a.listAlerts, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		JWT:         a.jwt,
		Address:     cfg.GRPCAddress(),
		TLSCertFile: cfg.TLSCertFile,
		TLSKeyFile:  cfg.TLSKeyFile,
		Reflection:  cfg.GRPCReflection || cfg.IsDevelopment(),
	}, logger)
	if err != nil {
		_ = a.Close(context.Background())
		return err
	}

	routerCfg := rest.RouterConfig{
		JWT:    a.jwt,
		Health: rest.NewHealthHandler(a.store, logger),
		API:    rest.NewAPIHandler(a.useCases(), a.operatorLogin(), logger),
		Logger: logger,
	}
	if cfg.MetricsEnabled {
		routerCfg.Gatherer = a.registry
	}
	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      rest.NewRouter(routerCfg),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 4)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	var consumer *pkgkafka.Consumer
	if cfg.KafkaIngestTopic != "" {
		consumer, err = pkgkafka.NewConsumer(kafkaConfig(cfg), cfg.KafkaIngestTopic,
			infrakafka.FinancingIngestHandler(a.scoreFinancing, logger), logger)
		if err != nil {
			errCh <- fmt.Errorf("kafka consumer error: %w", err)
		} else {
			go func() {
				if err := consumer.Start(ctx); err != nil {
					errCh <- fmt.Errorf("kafka consumer error: %w", err)
				}
			}()
		}
	}

	relayDone := make(chan struct{})
	if a.relay != nil {
		go func() {
			defer close(relayDone)
			if err := a.relay.Run(ctx); err != nil {
				errCh <- fmt.Errorf("outbox relay error: %w", err)
			}
		}()
	} else {
		close(relayDone)
	}

	logger.Info(programName+" started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
		"auth", cfg.AuthEnabled(),
	)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	logger.Info("shutting down " + programName)
	cancel()

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Error("kafka consumer shutdown error", "error", err)
		}
	}
	<-relayDone
	// events committed after the relay's last pass
	if err := a.flushOutbox(shutdownCtx); err != nil {
		logger.Error("outbox flush error", "error", err)
	}
	if err := a.Close(shutdownCtx); err != nil {
		logger.Error("failed to close adapters", "error", err)
	}
	if err := observability.Flush(shutdownCtx, shutdownTracer); err != nil {
		logger.Error("failed to flush traces", "error", err)
	}

	logger.Info(programName + " stopped")
	return runErr
}
