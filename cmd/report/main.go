// Command report runs the storm harm analysis batch job: it loads the NOAA
// Storm Events bulk CSV named by DATA_FILE, aggregates fatalities, injuries,
// and normalized economic damage by event type, and writes the ranked top-N
// tables to OUTPUT_DIR (and, when enabled, to the Kafka sink topic). Health
// and metrics endpoints are served for the duration of the run.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/storm-harm-report/internal/adapter/csvsource"
	"github.com/couchcryptid/storm-harm-report/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/storm-harm-report/internal/adapter/kafka"
	"github.com/couchcryptid/storm-harm-report/internal/adapter/report"
	"github.com/couchcryptid/storm-harm-report/internal/config"
	"github.com/couchcryptid/storm-harm-report/internal/observability"
	"github.com/couchcryptid/storm-harm-report/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	source := csvsource.New(cfg.DataFile, logger, metrics)

	fileWriter, err := report.NewFileWriter(cfg.OutputDir, logger)
	if err != nil {
		logger.Error("failed to create report writer", "error", err)
		return 1
	}
	sinks := []pipeline.ReportSink{fileWriter}

	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, kafkaWriter)
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	p := pipeline.New(source, sinks, logger, metrics, cfg.TopN)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	code := 0
	if err := p.Run(ctx); err != nil {
		logger.Error("analysis run failed", "error", err)
		code = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	return code
}
