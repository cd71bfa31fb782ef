package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/settleflow/reflow/internal/kafka"
	"github.com/settleflow/reflow/internal/reflow"
	"github.com/settleflow/reflow/pkg/telemetry"
	"github.com/settleflow/reflow/services/api/config"
	"github.com/settleflow/reflow/services/api/handler"
	"github.com/settleflow/reflow/services/api/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the reflow HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("http-port", "8080", "HTTP server port")
	serveCmd.Flags().String("metrics-addr", ":9095", "Prometheus metrics server address")
	serveCmd.Flags().String("kafka-brokers", "", "comma-separated Kafka broker addresses; empty disables audit events")
	serveCmd.Flags().String("audit-topic", "reflow.audit", "Kafka topic for reflow audit events")
	serveCmd.Flags().String("otel-endpoint", "", "OTLP HTTP endpoint for tracing (e.g. localhost:4318); empty disables tracing")

	bindFlag("http_port", serveCmd.Flags(), "http-port")
	bindFlag("metrics_addr", serveCmd.Flags(), "metrics-addr")
	bindFlag("kafka_brokers", serveCmd.Flags(), "kafka-brokers")
	bindFlag("audit_topic", serveCmd.Flags(), "audit-topic")
	bindFlag("otel_endpoint", serveCmd.Flags(), "otel-endpoint")
	_ = viper.BindEnv("otel_endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.Load(viper.GetViper())
	logger := buildLogger(cfg.LogLevel, "reflow-api")

	shutdownTracer, err := telemetry.InitTracer(context.Background(), "reflow-api", cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	defer shutdownTracer()

	var producer kafka.Producer
	if cfg.KafkaBrokers != "" {
		producer = kafka.NewProducer(strings.Split(cfg.KafkaBrokers, ","))
		defer func() { _ = producer.Close() }()
		logger.Info("audit events enabled", slog.String("topic", cfg.AuditTopic))
	}

	engine := reflow.NewService(logger)
	restHandler := handler.NewREST(engine, producer, cfg.AuditTopic, logger)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS)
	r.Use(middleware.MaxBodySize(1 << 20)) // 1MB limit
	r.Get("/healthz", restHandler.Healthz)
	r.Get("/readyz", restHandler.Readyz)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/reflow", restHandler.Reflow)
		r.Get("/scenarios", restHandler.ListScenarios)
		r.Get("/scenarios/{key}", restHandler.GetScenario)
	})

	httpSrv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()

	telemetry.StartMetricsServer(runCtx, cfg.MetricsAddr, logger)

	go func() {
		logger.Info("reflow-api starting", slog.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-quit
	logger.Info("shutting down...")
	runCancel()

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutCancel()
	if err := httpSrv.Shutdown(shutCtx); err != nil {
		logger.Error("HTTP shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("stopped")
	return nil
}
