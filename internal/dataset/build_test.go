package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/incident-feed-service/internal/domain"
)

func makeIncident(id string, src domain.Source, reportedAt string, lat, lng float64, desc string, conf float64) domain.Incident {
	return domain.Incident{
		ID:          id,
		Source:      src,
		Description: desc,
		Location:    domain.Location{Lat: lat, Lng: lng, State: "NC"},
		ReportedAt:  reportedAt,
		Confidence:  conf,
	}
}

func TestAdjustConfidence(t *testing.T) {
	longDesc := "Multiple agents observed conducting arrests outside the courthouse downtown this morning"

	tests := []struct {
		name string
		desc string
		in   float64
		want float64
	}{
		{"detailed description unchanged", longDesc, 0.65, 0.65},
		{"short description penalized", "ICE here", 0.65, 0.50},
		{"hedging language penalized", longDesc + " but possibly just a routine stop", 0.65, 0.50},
		{"rumor language penalized more", longDesc + " though still an unconfirmed rumor", 0.65, 0.45},
		{"clamped at zero", "maybe", 0.10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AdjustConfidence(makeIncident("x", domain.SourceStopICE, "2026-01-18T10:00:00Z", 35.9, -78.9, tt.desc, tt.in))
			assert.InDelta(t, tt.want, got.Confidence, 1e-9)
		})
	}
}

func TestDeduplicateMergesCorroboratedReports(t *testing.T) {
	desc := "Checkpoint reported at the intersection of Main Street and 5th Avenue near downtown"
	a := makeIncident("stopice-1", domain.SourceStopICE, "2026-01-18T10:00:00Z", 35.9940, -78.8986, desc, 0.65)
	b := makeIncident("ojonc-7", domain.SourceOJONC, "2026-01-18T11:30:00Z", 35.9945, -78.8990, desc+" with two vans", 0.75)

	merged := Deduplicate([]domain.Incident{a, b})
	require.Len(t, merged, 1)

	got := merged[0]
	assert.Equal(t, domain.Source("ojonc;stop_ice"), got.Source)
	assert.Equal(t, desc+" with two vans", got.Description)
	assert.InDelta(t, 0.85, got.Confidence, 1e-9)
	assert.Equal(t, "2026-01-18T11:30:00Z", got.ReportedAt)
	assert.True(t, len(got.ID) > 4 && got.ID[:4] == "inc-")
}

func TestDeduplicateKeepsDistinctEvents(t *testing.T) {
	desc := "Checkpoint reported at the intersection of Main Street and 5th Avenue near downtown"
	tests := []struct {
		name string
		b    domain.Incident
	}{
		{
			"outside time window",
			makeIncident("b", domain.SourceOJONC, "2026-01-18T14:30:00Z", 35.9940, -78.8986, desc, 0.55),
		},
		{
			"outside radius",
			makeIncident("b", domain.SourceOJONC, "2026-01-18T10:30:00Z", 36.10, -78.8986, desc, 0.55),
		},
		{
			"dissimilar descriptions",
			makeIncident("b", domain.SourceOJONC, "2026-01-18T10:30:00Z", 35.9940, -78.8986,
				"Raid underway at a food processing plant on the east side of the city", 0.55),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := makeIncident("a", domain.SourceStopICE, "2026-01-18T10:00:00Z", 35.9940, -78.8986, desc, 0.65)
			merged := Deduplicate([]domain.Incident{a, tt.b})
			assert.Len(t, merged, 2)
		})
	}
}

func TestDeduplicateRebuildsStableIDs(t *testing.T) {
	a := makeIncident("stopice-1", domain.SourceStopICE, "2026-01-18T10:00:00Z", 35.9, -78.9,
		"Agents observed near the county courthouse conducting document checks", 0.65)

	first := Deduplicate([]domain.Incident{a})
	second := Deduplicate([]domain.Incident{a})
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestBuildSortsAndStampsMetadata(t *testing.T) {
	older := makeIncident("a", domain.SourceStopICE, "2026-01-17T09:00:00Z", 35.9, -78.9,
		"Agents observed near the county courthouse conducting document checks", 0.65)
	newer := makeIncident("b", domain.SourceOJONC, "2026-01-18T10:00:00Z", 40.7, -74.0,
		"Checkpoint established on the highway exit ramp heading into the city", 0.55)
	generated := time.Date(2026, 1, 18, 12, 0, 0, 0, time.UTC)

	ds := Build([]domain.Incident{older, newer}, &domain.Stats{TotalArrests: 41}, generated)

	require.Len(t, ds.Incidents, 2)
	assert.Equal(t, "2026-01-18T10:00:00Z", ds.Incidents[0].ReportedAt)
	assert.Equal(t, "2026-01-18T10:00:00Z", ds.LatestReportedAt)
	assert.Equal(t, "2026-01-18T12:00:00Z", ds.GeneratedAt)
	require.NotNil(t, ds.Stats)
	assert.Equal(t, 41, ds.Stats.TotalArrests)
}

func TestGrouping(t *testing.T) {
	a := makeIncident("a", domain.SourceStopICE, "2026-01-17T09:00:00Z", 35.9, -78.9, "x", 0.5)
	b := makeIncident("b", domain.SourceOJONC, "2026-01-18T10:00:00Z", 40.7, -74.0, "y", 0.5)
	b.Location.State = "NY"
	c := makeIncident("c", domain.SourceOJONC, "not-a-time", 40.7, -74.0, "z", 0.5)
	c.Location.State = ""

	byState := GroupByState([]domain.Incident{a, b, c})
	assert.Len(t, byState["NC"], 1)
	assert.Len(t, byState["NY"], 1)
	assert.NotContains(t, byState, "")

	byDate := GroupByDate([]domain.Incident{a, b, c})
	assert.Len(t, byDate["2026-01-17"], 1)
	assert.Len(t, byDate["2026-01-18"], 1)
	assert.Len(t, byDate["unknown"], 1)
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, similarity("same text", "Same Text"), 1e-9)
	assert.Equal(t, 0.0, similarity("something", ""))
	assert.Greater(t, similarity("checkpoint on main street", "checkpoint on main st"), 0.75)
	assert.Less(t, similarity("checkpoint on main street", "raid at the plant"), 0.75)
}

func TestHaversine(t *testing.T) {
	// Durham to Raleigh is roughly 32km.
	d := haversineKm(35.9940, -78.8986, 35.7796, -78.6382)
	assert.InDelta(t, 32, d, 3)

	assert.InDelta(t, 0, haversineKm(35.9940, -78.8986, 35.9940, -78.8986), 1e-9)
}
