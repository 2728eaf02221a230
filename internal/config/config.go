package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Default upstream endpoints. All are overridable for tests and mirrors.
const (
	defaultStopICEURL = "https://www.stopice.net/login/?recentmapdata=1&duration=since_yesterday"
	defaultMarkersURL = "https://xeypvrvvqgjmajccowfy.supabase.co/rest/v1/markers?select=*&active=eq.true&moderation_status=eq.approved"
	defaultStatsURL   = "https://firestore.googleapis.com/v1/projects/tracker-114f3/databases/(default)/documents/stats/deportation_data"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Aggregation settings.
	CacheTTL     time.Duration
	FetchTimeout time.Duration

	// Upstream feeds.
	StopICEURL    string
	MarkersURL    string
	MarkersAPIKey string
	StatsURL      string

	// Static fallback dataset: local file path or http(s) URL.
	StaticDataPath string

	// Kafka firehose configuration.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		CacheTTL:     cacheTTL,
		FetchTimeout: fetchTimeout,

		StopICEURL:    envOrDefault("STOPICE_URL", defaultStopICEURL),
		MarkersURL:    envOrDefault("MARKERS_URL", defaultMarkersURL),
		MarkersAPIKey: os.Getenv("MARKERS_API_KEY"),
		StatsURL:      envOrDefault("STATS_URL", defaultStatsURL),

		StaticDataPath: envOrDefault("STATIC_DATA_PATH", "data/index.json"),

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "incident-feed"),
	}

	if cfg.StopICEURL == "" || cfg.MarkersURL == "" || cfg.StatsURL == "" {
		return nil, errors.New("upstream feed URLs must not be empty")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	raw := envOrDefault(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

func parseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
