// Command builddata fetches every live feed once, refines and cross-source
// deduplicates the results, and writes the static fallback dataset that
// feedd serves when the upstreams are down.
//
// Usage:
//
//	go run ./cmd/builddata -out data/index.json -states-dir data/states
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/incident-feed-service/internal/aggregate"
	"github.com/couchcryptid/incident-feed-service/internal/config"
	"github.com/couchcryptid/incident-feed-service/internal/dataset"
	"github.com/couchcryptid/incident-feed-service/internal/domain"
	"github.com/couchcryptid/incident-feed-service/internal/observability"
	"github.com/couchcryptid/incident-feed-service/internal/source"
)

func main() {
	out := flag.String("out", "data/index.json", "path for the combined dataset")
	statesDir := flag.String("states-dir", "", "optional directory for per-state shards")
	timeout := flag.Duration("timeout", 60*time.Second, "overall fetch deadline")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.LogLevel, "text")
	metrics := observability.NewMetrics()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := source.NewClient(cfg.FetchTimeout, logger, metrics)

	var incidents []domain.Incident
	feeds := []aggregate.IncidentSource{
		source.NewStopICEFeed(client, cfg.StopICEURL),
		source.NewMarkerFeed(client, cfg.MarkersURL, cfg.MarkersAPIKey),
	}
	for _, feed := range feeds {
		batch, status := feed.Fetch(ctx)
		if status.Error != "" {
			logger.Warn("feed fetch failed", "source", feed.Tag(), "error", status.Error)
			continue
		}
		logger.Info("feed fetched", "source", feed.Tag(), "count", len(batch))
		incidents = append(incidents, batch...)
	}

	stats, status := source.NewStatsFeed(client, cfg.StatsURL).Fetch(ctx)
	if status.Error != "" {
		logger.Warn("stats fetch failed", "error", status.Error)
	}

	ds := dataset.Build(incidents, stats, time.Now())
	logger.Info("dataset built",
		"raw", len(incidents),
		"deduplicated", len(ds.Incidents),
		"states", len(dataset.GroupByState(ds.Incidents)),
		"days", len(dataset.GroupByDate(ds.Incidents)),
		"latest", ds.LatestReportedAt,
	)

	if err := writeJSON(*out, ds); err != nil {
		logger.Error("write dataset", "path", *out, "error", err)
		os.Exit(1)
	}

	if *statesDir != "" {
		if err := writeStateShards(*statesDir, ds); err != nil {
			logger.Error("write state shards", "dir", *statesDir, "error", err)
			os.Exit(1)
		}
	}

	fmt.Printf("wrote %d incidents to %s\n", len(ds.Incidents), *out)
}

// writeStateShards emits one dataset per state so clients can fetch only
// their region.
func writeStateShards(dir string, ds domain.StaticDataset) error {
	for state, incidents := range dataset.GroupByState(ds.Incidents) {
		shard := domain.StaticDataset{
			Incidents:        incidents,
			LatestReportedAt: incidents[0].ReportedAt,
			GeneratedAt:      ds.GeneratedAt,
		}
		path := filepath.Join(dir, state+".json")
		if err := writeJSON(path, shard); err != nil {
			return fmt.Errorf("shard %s: %w", state, err)
		}
	}
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
