package aggregate

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/incident-feed-service/internal/domain"
	"github.com/couchcryptid/incident-feed-service/internal/observability"
)

// IncidentSource is one live upstream feed producing incidents. Fetch never
// returns an error: failures are absorbed into the returned status.
type IncidentSource interface {
	Tag() domain.Source
	Fetch(ctx context.Context) ([]domain.Incident, domain.SourceStatus)
}

// StatsSource is the live statistics feed.
type StatsSource interface {
	Tag() domain.Source
	Fetch(ctx context.Context) (*domain.Stats, domain.SourceStatus)
}

// StaticLoader supplies the fallback dataset, or nil when unavailable.
type StaticLoader interface {
	Load(ctx context.Context) *domain.StaticDataset
}

// Publisher receives each freshly merged incident list. Optional.
type Publisher interface {
	PublishSnapshot(ctx context.Context, incidents []domain.Incident) error
}

// Result is what FetchAll hands to callers.
type Result struct {
	Incidents   []domain.Incident                     `json:"incidents"`
	Stats       *domain.Stats                         `json:"stats"`
	Sources     map[domain.Source]domain.SourceStatus `json:"sources"`
	FromCache   bool                                  `json:"fromCache"`
	LiveCount   int                                   `json:"liveCount"`
	StaticCount int                                   `json:"staticCount"`
}

// Aggregator fans out to every source, merges the outputs with the static
// fallback, and owns the cache. It cannot fail: total upstream failure
// produces a well-formed empty result.
type Aggregator struct {
	sources []IncidentSource
	stats   StatsSource
	static  StaticLoader
	cache   *Cache
	pub     Publisher // nil when the firehose is disabled

	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
	ttl     time.Duration

	// refreshing serializes refresh cycles so concurrent callers share one
	// fan-out instead of hammering the upstreams.
	refreshing chan struct{}
	ready      atomic.Bool
}

// New creates an Aggregator. sources are fetched and merged in slice order;
// pub may be nil.
func New(sources []IncidentSource, stats StatsSource, static StaticLoader, cache *Cache, pub Publisher, logger *slog.Logger, metrics *observability.Metrics, ttl time.Duration) *Aggregator {
	return &Aggregator{
		sources:    sources,
		stats:      stats,
		static:     static,
		cache:      cache,
		pub:        pub,
		logger:     logger,
		metrics:    metrics,
		clock:      clockwork.NewRealClock(),
		ttl:        ttl,
		refreshing: make(chan struct{}, 1),
	}
}

// SetClock swaps the time source, for deterministic TTL tests. The cache
// keeps its own clock; swap both when freezing time.
func (a *Aggregator) SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	a.clock = c
}

// CheckReadiness returns nil once the first aggregation cycle has
// completed, successfully or not.
func (a *Aggregator) CheckReadiness(_ context.Context) error {
	if !a.ready.Load() {
		return errors.New("aggregator has not completed a refresh yet")
	}
	return nil
}

// FetchAll returns the merged incident snapshot, refreshing it when forced
// or when the cached one has outlived the freshness window.
func (a *Aggregator) FetchAll(ctx context.Context, force bool) Result {
	if !force {
		if res, ok := a.cachedResult(); ok {
			a.metrics.CacheLookups.WithLabelValues("hit").Inc()
			return res
		}
		a.metrics.CacheLookups.WithLabelValues("miss").Inc()
	} else {
		a.metrics.CacheLookups.WithLabelValues("forced").Inc()
	}

	// Single-flight: one refresh at a time. A caller that waited here
	// re-checks the cache and usually rides on the refresh that just
	// finished.
	a.refreshing <- struct{}{}
	defer func() { <-a.refreshing }()

	if !force {
		if res, ok := a.cachedResult(); ok {
			return res
		}
	}

	return a.refresh(ctx)
}

// ClearCache resets the cache to its startup state.
func (a *Aggregator) ClearCache() {
	a.cache.Clear()
}

func (a *Aggregator) cachedResult() (Result, bool) {
	snap := a.cache.Snapshot()
	if snap == nil {
		return Result{}, false
	}
	if a.cache.clock.Since(snap.FetchedAt) >= a.ttl {
		return Result{}, false
	}
	return Result{
		Incidents: snap.Incidents,
		Stats:     snap.Stats,
		Sources:   snap.Sources,
		FromCache: true,
	}, true
}

// refresh runs one full fan-out, merge, and cache replacement cycle.
func (a *Aggregator) refresh(ctx context.Context) Result {
	start := a.clock.Now()
	a.logger.Info("refreshing incident snapshot", "sources", len(a.sources))

	liveLists := make([][]domain.Incident, len(a.sources))
	statuses := make([]domain.SourceStatus, len(a.sources))
	var (
		liveStats   *domain.Stats
		statsStatus domain.SourceStatus
		staticData  *domain.StaticDataset
	)

	// Join-all fan-out: every fetch settles on its own; a slow or failed
	// source only costs its own timeout. Each goroutine writes only its own
	// slot, so there is no shared-state hazard.
	var g errgroup.Group
	for i, src := range a.sources {
		g.Go(func() error {
			liveLists[i], statuses[i] = src.Fetch(ctx)
			return nil
		})
	}
	g.Go(func() error {
		liveStats, statsStatus = a.stats.Fetch(ctx)
		return nil
	})
	g.Go(func() error {
		staticData = a.static.Load(ctx)
		return nil
	})
	_ = g.Wait() // fetchers absorb their own errors

	sources := make(map[domain.Source]domain.SourceStatus, len(a.sources)+1)
	for i, src := range a.sources {
		sources[src.Tag()] = statuses[i]
	}
	sources[a.stats.Tag()] = statsStatus

	liveCount := 0
	for _, list := range liveLists {
		liveCount += len(list)
	}
	staticCount := 0
	if staticData != nil {
		staticCount = len(staticData.Incidents)
	}

	merged := mergeIncidents(liveLists, staticData)
	sortByRecency(merged)

	stats := liveStats
	if stats == nil && staticData != nil {
		stats = staticData.Stats
	}

	a.cache.Replace(merged, stats, sources)
	a.ready.Store(true)

	a.metrics.RefreshDuration.Observe(a.clock.Since(start).Seconds())
	a.metrics.MergedIncidents.Set(float64(len(merged)))
	a.metrics.LastRefresh.Set(float64(a.clock.Now().Unix()))

	a.publish(ctx, merged)

	a.logger.Info("incident snapshot refreshed",
		"live", liveCount, "static", staticCount, "merged", len(merged),
		"has_stats", stats != nil,
	)

	return Result{
		Incidents:   merged,
		Stats:       stats,
		Sources:     sources,
		FromCache:   false,
		LiveCount:   liveCount,
		StaticCount: staticCount,
	}
}

func (a *Aggregator) publish(ctx context.Context, incidents []domain.Incident) {
	if a.pub == nil || len(incidents) == 0 {
		return
	}
	if err := a.pub.PublishSnapshot(ctx, incidents); err != nil {
		// The firehose is a side output; a broker outage must not fail
		// the refresh.
		a.logger.Warn("firehose publish failed", "error", err)
		a.metrics.FirehoseErrors.Inc()
		return
	}
	a.metrics.FirehosePublished.Add(float64(len(incidents)))
}

// mergeIncidents walks the live lists in fixed source order, then the
// static dataset, keeping the first occurrence of every id. Live records
// therefore always win id collisions against static ones, and a source
// repeating an id contributes a single record.
func mergeIncidents(liveLists [][]domain.Incident, staticData *domain.StaticDataset) []domain.Incident {
	seen := make(map[string]bool)
	merged := make([]domain.Incident, 0, 64)

	appendUnseen := func(list []domain.Incident) {
		for _, inc := range list {
			if seen[inc.ID] {
				continue
			}
			seen[inc.ID] = true
			merged = append(merged, inc)
		}
	}

	for _, list := range liveLists {
		appendUnseen(list)
	}
	if staticData != nil {
		appendUnseen(staticData.Incidents)
	}
	return merged
}

// sortByRecency orders incidents most recent first. The sort is stable so
// equal timestamps retain merge order; unparseable timestamps compare as
// the zero time and sink to the end.
func sortByRecency(incidents []domain.Incident) {
	type keyed struct {
		t   time.Time
		inc domain.Incident
	}
	ks := make([]keyed, len(incidents))
	for i, inc := range incidents {
		ks[i] = keyed{t: domain.ParseReportedAt(inc.ReportedAt), inc: inc}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		return ks[i].t.After(ks[j].t)
	})
	for i := range ks {
		incidents[i] = ks[i].inc
	}
}
