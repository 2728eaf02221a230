package aggregate

import (
	"context"
	"strings"
	"time"

	"github.com/couchcryptid/incident-feed-service/internal/domain"
)

// Service is the query facade consumed by the rendering layer. It is a
// read-only view over the aggregator and its cache.
type Service struct {
	agg *Aggregator
}

// NewService wraps an aggregator in the query facade.
func NewService(agg *Aggregator) *Service {
	return &Service{agg: agg}
}

// FetchAll returns the merged snapshot, refreshing it when forced or stale.
func (s *Service) FetchAll(ctx context.Context, force bool) Result {
	return s.agg.FetchAll(ctx, force)
}

// IncidentsByState filters the merged snapshot by case-insensitive state
// code equality.
func (s *Service) IncidentsByState(ctx context.Context, code string) []domain.Incident {
	res := s.agg.FetchAll(ctx, false)
	code = strings.ToUpper(strings.TrimSpace(code))

	filtered := make([]domain.Incident, 0)
	for _, inc := range res.Incidents {
		if strings.ToUpper(inc.Location.State) == code {
			filtered = append(filtered, inc)
		}
	}
	return filtered
}

// StatusReport is the source-status introspection payload.
type StatusReport struct {
	Sources   map[domain.Source]domain.SourceStatus `json:"sources"`
	LastFetch string                                `json:"lastFetch,omitempty"`
	CacheAge  *int                                  `json:"cacheAge"` // seconds; nil when never fetched
}

// SourceStatus returns the last-known per-source statuses and the cache age
// in whole seconds. Before the first refresh both are empty/nil.
func (s *Service) SourceStatus() StatusReport {
	snap := s.agg.cache.Snapshot()
	if snap == nil {
		return StatusReport{Sources: map[domain.Source]domain.SourceStatus{}}
	}

	age, _ := s.agg.cache.Age()
	seconds := int(age.Seconds())
	return StatusReport{
		Sources:   snap.Sources,
		LastFetch: snap.FetchedAt.UTC().Format(time.RFC3339),
		CacheAge:  &seconds,
	}
}

// CheckReadiness reports whether at least one aggregation cycle has run.
func (s *Service) CheckReadiness(ctx context.Context) error {
	return s.agg.CheckReadiness(ctx)
}

// ClearCache resets the cache for forced cold starts.
func (s *Service) ClearCache() {
	s.agg.ClearCache()
}
