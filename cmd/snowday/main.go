package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/snow-day-forecast-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/snow-day-forecast-service/internal/adapter/kafka"
	"github.com/couchcryptid/snow-day-forecast-service/internal/adapter/nws"
	"github.com/couchcryptid/snow-day-forecast-service/internal/adapter/zippopotam"
	"github.com/couchcryptid/snow-day-forecast-service/internal/config"
	"github.com/couchcryptid/snow-day-forecast-service/internal/forecaster"
	"github.com/couchcryptid/snow-day-forecast-service/internal/observability"
	"github.com/couchcryptid/snow-day-forecast-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	geocoder := zippopotam.NewCachedGeocoder(
		zippopotam.NewClient(cfg.GeocoderBaseURL, cfg.GeocoderTimeout, logger, metrics),
		cfg.GeocoderCacheSize,
		metrics,
	)
	weather := nws.NewClient(cfg.NWSBaseURL, cfg.NWSUserAgent, cfg.NWSTimeout, logger, metrics)
	svc := forecaster.New(geocoder, weather, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// On-demand forecasts need nothing warmed up, so the service is ready as
	// soon as it is listening. With publishing enabled, readiness instead
	// tracks the refresher's first completed cycle.
	var ready sharedobs.ReadinessChecker = alwaysReady{}

	var writer *kafkaadapter.Writer
	if cfg.PublishEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		refresher := pipeline.New(svc, writer, cfg, logger, metrics)
		ready = refresher

		go func() {
			if err := refresher.Run(ctx); err != nil {
				logger.Error("refresher error", "error", err)
			}
		}()
		logger.Info("kafka publishing enabled",
			"zip", cfg.HomeZip,
			"topic", cfg.KafkaSinkTopic,
			"interval", cfg.RefreshInterval,
		)
	} else {
		logger.Info("kafka publishing disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, cfg.Profile, ready, logger, metrics)

	// Start HTTP server.
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
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// alwaysReady is the readiness check for on-demand-only deployments.
type alwaysReady struct{}

func (alwaysReady) CheckReadiness(context.Context) error { return nil }
