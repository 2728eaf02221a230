package aggregate

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/incident-feed-service/internal/domain"
)

// Snapshot is one fully-merged aggregation result. The three data fields
// are always replaced together; there are no partial updates.
type Snapshot struct {
	Incidents []domain.Incident
	Stats     *domain.Stats
	Sources   map[domain.Source]domain.SourceStatus
	FetchedAt time.Time
}

// Cache holds the last merged snapshot. The aggregator is the only writer;
// the query facade reads. Replacement is last-writer-wins and atomic under
// the mutex. Callers must treat returned snapshots as read-only.
type Cache struct {
	mu    sync.Mutex
	snap  *Snapshot
	clock clockwork.Clock
}

// NewCache creates an empty cache. A nil clock means real time.
func NewCache(clock clockwork.Clock) *Cache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cache{clock: clock}
}

// Replace installs a new snapshot, stamping it with the current instant.
func (c *Cache) Replace(incidents []domain.Incident, stats *domain.Stats, sources map[domain.Source]domain.SourceStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = &Snapshot{
		Incidents: incidents,
		Stats:     stats,
		Sources:   sources,
		FetchedAt: c.clock.Now(),
	}
}

// Snapshot returns the current snapshot, or nil when nothing has been
// cached since startup (or the last Clear).
func (c *Cache) Snapshot() *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Age returns how long ago the snapshot was installed. ok is false when
// the cache is empty.
func (c *Cache) Age() (age time.Duration, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap == nil {
		return 0, false
	}
	return c.clock.Since(c.snap.FetchedAt), true
}

// Clear resets the cache to its untouched startup state.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
}
