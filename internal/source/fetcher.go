package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/incident-feed-service/internal/domain"
	"github.com/couchcryptid/incident-feed-service/internal/observability"
)

// Client is the shared HTTP layer behind every source fetcher. Each fetch
// is bounded by the configured per-source timeout; cancellation aborts only
// that request.
type Client struct {
	rest    *resty.Client
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
	timeout time.Duration
}

// NewClient creates the fetch client. The retry policy covers transient
// connection drops within one aggregation cycle; anything slower than the
// timeout is surfaced as a per-source error instead.
func NewClient(timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		rest: resty.New().
			SetRetryCount(1).
			SetRetryWaitTime(500 * time.Millisecond),
		logger:  logger,
		metrics: metrics,
		clock:   clockwork.NewRealClock(),
		timeout: timeout,
	}
}

// get performs one bounded request and returns the raw body.
func (c *Client) get(ctx context.Context, url string, headers map[string]string, tag domain.Source) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := c.clock.Now()
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	c.metrics.FetchDuration.WithLabelValues(string(tag)).Observe(c.clock.Since(start).Seconds())

	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", tag, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("fetch %s: HTTP %d", tag, resp.StatusCode())
	}
	return resp.Body(), nil
}

// okStatus records a successful fetch for status introspection and metrics.
func (c *Client) okStatus(tag domain.Source, count int) domain.SourceStatus {
	c.metrics.SourceFetches.WithLabelValues(string(tag), "ok").Inc()
	c.metrics.ParsedRecords.WithLabelValues(string(tag)).Add(float64(count))
	return domain.SourceStatus{
		Status:    "ok",
		Count:     count,
		FetchedAt: c.clock.Now().UTC().Format(time.RFC3339),
	}
}

// errStatus downgrades a fetch or parse failure to a status entry. Failures
// stop here: the aggregator only ever sees the status map.
func (c *Client) errStatus(tag domain.Source, err error) domain.SourceStatus {
	c.logger.Warn("source fetch failed", "source", tag, "error", err)
	c.metrics.SourceFetches.WithLabelValues(string(tag), "error").Inc()
	return domain.SourceStatus{Status: "error", Error: err.Error()}
}

// StopICEFeed fetches the tag-delimited alert feed.
type StopICEFeed struct {
	client *Client
	url    string
}

func NewStopICEFeed(client *Client, url string) *StopICEFeed {
	return &StopICEFeed{client: client, url: url}
}

func (f *StopICEFeed) Tag() domain.Source { return domain.SourceStopICE }

func (f *StopICEFeed) Fetch(ctx context.Context) ([]domain.Incident, domain.SourceStatus) {
	body, err := f.client.get(ctx, f.url, nil, domain.SourceStopICE)
	if err != nil {
		return nil, f.client.errStatus(domain.SourceStopICE, err)
	}
	incidents, err := ParseStopICE(body)
	if err != nil {
		return nil, f.client.errStatus(domain.SourceStopICE, err)
	}
	return incidents, f.client.okStatus(domain.SourceStopICE, len(incidents))
}

// MarkerFeed fetches the marker document-list feed. The API key doubles as
// the bearer token, matching the upstream's anon-key auth scheme.
type MarkerFeed struct {
	client *Client
	url    string
	apiKey string
}

func NewMarkerFeed(client *Client, url, apiKey string) *MarkerFeed {
	return &MarkerFeed{client: client, url: url, apiKey: apiKey}
}

func (f *MarkerFeed) Tag() domain.Source { return domain.SourceOJONC }

func (f *MarkerFeed) Fetch(ctx context.Context) ([]domain.Incident, domain.SourceStatus) {
	var headers map[string]string
	if f.apiKey != "" {
		headers = map[string]string{
			"apikey":        f.apiKey,
			"Authorization": "Bearer " + f.apiKey,
		}
	}
	body, err := f.client.get(ctx, f.url, headers, domain.SourceOJONC)
	if err != nil {
		return nil, f.client.errStatus(domain.SourceOJONC, err)
	}
	incidents, err := ParseMarkers(body)
	if err != nil {
		return nil, f.client.errStatus(domain.SourceOJONC, err)
	}
	return incidents, f.client.okStatus(domain.SourceOJONC, len(incidents))
}

// StatsFeed fetches the key/value statistics document.
type StatsFeed struct {
	client *Client
	url    string
}

func NewStatsFeed(client *Client, url string) *StatsFeed {
	return &StatsFeed{client: client, url: url}
}

func (f *StatsFeed) Tag() domain.Source { return domain.SourceDeportationTracker }

func (f *StatsFeed) Fetch(ctx context.Context) (*domain.Stats, domain.SourceStatus) {
	body, err := f.client.get(ctx, f.url, nil, domain.SourceDeportationTracker)
	if err != nil {
		return nil, f.client.errStatus(domain.SourceDeportationTracker, err)
	}
	stats, err := ParseStats(body)
	if err != nil {
		return nil, f.client.errStatus(domain.SourceDeportationTracker, err)
	}
	count := 0
	if stats != nil {
		count = 1
	}
	return stats, f.client.okStatus(domain.SourceDeportationTracker, count)
}
