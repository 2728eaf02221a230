package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/incident-feed-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/incident-feed-service/internal/adapter/kafka"
	"github.com/couchcryptid/incident-feed-service/internal/aggregate"
	"github.com/couchcryptid/incident-feed-service/internal/config"
	"github.com/couchcryptid/incident-feed-service/internal/observability"
	"github.com/couchcryptid/incident-feed-service/internal/source"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := source.NewClient(cfg.FetchTimeout, logger, metrics)
	feeds := []aggregate.IncidentSource{
		source.NewStopICEFeed(client, cfg.StopICEURL),
		source.NewMarkerFeed(client, cfg.MarkersURL, cfg.MarkersAPIKey),
	}
	stats := source.NewStatsFeed(client, cfg.StatsURL)
	static := source.NewStaticLoader(client, cfg.StaticDataPath)

	// Firehose publishing is feature-flagged via KAFKA_ENABLED.
	var pub aggregate.Publisher
	var firehose *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		firehose = kafkaadapter.NewPublisher(cfg, logger)
		pub = firehose
		logger.Info("kafka firehose enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka firehose disabled")
	}

	cache := aggregate.NewCache(nil)
	agg := aggregate.New(feeds, stats, static, cache, pub, logger, metrics, cfg.CacheTTL)
	svc := aggregate.NewService(agg)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Warm the cache so the first request doesn't pay the fan-out.
	res := svc.FetchAll(ctx, false)
	logger.Info("initial fetch complete", "incidents", len(res.Incidents), "live", res.LiveCount, "static", res.StaticCount)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if firehose != nil {
		if err := firehose.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
