// Command statsd serves the municipal seasonality statistics API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/civimetrics/seasonality-service/internal/adapter/export"
	"github.com/civimetrics/seasonality-service/internal/adapter/httpapi"
	kafkaadapter "github.com/civimetrics/seasonality-service/internal/adapter/kafka"
	plotadapter "github.com/civimetrics/seasonality-service/internal/adapter/plot"
	"github.com/civimetrics/seasonality-service/internal/config"
	"github.com/civimetrics/seasonality-service/internal/observability"
	"github.com/civimetrics/seasonality-service/internal/seasonality"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	opts := seasonality.RunnerOptions{
		Exporter: &export.FileExporter{Workbook: true},
		OutRoot:  cfg.OutRoot,
	}

	// Plot rendering is feature-flagged; headless deployments that only
	// consume the JSON indices can turn it off.
	if cfg.PlotsEnabled {
		opts.Renderer = plotadapter.NewRenderer()
	} else {
		logger.Info("plot rendering disabled")
	}

	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		opts.Publisher = publisher
		logger.Info("kafka run publishing enabled", "topic", cfg.KafkaRunTopic)
	} else {
		logger.Info("kafka run publishing disabled")
	}

	runner := seasonality.NewRunner(logger, metrics, opts)
	srv := httpapi.NewServer(cfg.HTTPAddr, runner, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
