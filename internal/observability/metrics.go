package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// incident aggregation pipeline.
type Metrics struct {
	SourceFetches  *prometheus.CounterVec   // labels: source, outcome={ok,error}
	FetchDuration  *prometheus.HistogramVec // labels: source
	ParsedRecords  *prometheus.CounterVec   // labels: source

	CacheLookups    *prometheus.CounterVec // labels: result={hit,miss,forced}
	RefreshDuration prometheus.Histogram
	MergedIncidents prometheus.Gauge
	LastRefresh     prometheus.Gauge

	FirehosePublished prometheus.Counter
	FirehoseErrors    prometheus.Counter
}

// NewMetrics creates and registers all aggregator metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incident_feed",
			Name:      "source_fetches_total",
			Help:      "Upstream fetch attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "incident_feed",
			Name:      "source_fetch_duration_seconds",
			Help:      "Upstream fetch+parse duration by source.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"source"}),
		ParsedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incident_feed",
			Name:      "parsed_records_total",
			Help:      "Records that survived parsing, by source.",
		}, []string{"source"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incident_feed",
			Name:      "cache_lookups_total",
			Help:      "FetchAll cache checks by result.",
		}, []string{"result"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "incident_feed",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a full fan-out, merge, and cache replacement.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		MergedIncidents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "incident_feed",
			Name:      "merged_incidents",
			Help:      "Incident count in the last merged snapshot.",
		}),
		LastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "incident_feed",
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time of the last successful aggregation cycle.",
		}),
		FirehosePublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "incident_feed",
			Name:      "firehose_published_total",
			Help:      "Incidents published to the firehose topic.",
		}),
		FirehoseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "incident_feed",
			Name:      "firehose_errors_total",
			Help:      "Failed firehose publish attempts.",
		}),
	}

	prometheus.MustRegister(
		m.SourceFetches,
		m.FetchDuration,
		m.ParsedRecords,
		m.CacheLookups,
		m.RefreshDuration,
		m.MergedIncidents,
		m.LastRefresh,
		m.FirehosePublished,
		m.FirehoseErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SourceFetches:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "incident_feed", Name: "source_fetches_total"}, []string{"source", "outcome"}),
		FetchDuration:     prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "incident_feed", Name: "source_fetch_duration_seconds"}, []string{"source"}),
		ParsedRecords:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "incident_feed", Name: "parsed_records_total"}, []string{"source"}),
		CacheLookups:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "incident_feed", Name: "cache_lookups_total"}, []string{"result"}),
		RefreshDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "incident_feed", Name: "refresh_duration_seconds"}),
		MergedIncidents:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "incident_feed", Name: "merged_incidents"}),
		LastRefresh:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "incident_feed", Name: "last_refresh_timestamp_seconds"}),
		FirehosePublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "incident_feed", Name: "firehose_published_total"}),
		FirehoseErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "incident_feed", Name: "firehose_errors_total"}),
	}
}
