package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/incident-feed-service/internal/domain"
)

func TestParseMarkers(t *testing.T) {
	t.Run("approved marker", func(t *testing.T) {
		body := `[{
			"id": 812,
			"latitude": "35.2271",
			"longitude": -80.8431,
			"description": "Checkpoint at South Blvd",
			"marker_type": "Checkpoint",
			"city": "Charlotte",
			"state": "nc",
			"created_at": "2026-01-18T09:30:00Z",
			"moderation_status": "approved"
		}]`
		incidents, err := ParseMarkers([]byte(body))
		require.NoError(t, err)
		require.Len(t, incidents, 1)

		inc := incidents[0]
		assert.Equal(t, "ojonc-812", inc.ID)
		assert.Equal(t, domain.SourceOJONC, inc.Source)
		assert.Equal(t, "2026-01-18T09:30:00Z", inc.ReportedAt)
		assert.Equal(t, "Charlotte", inc.Location.City)
		assert.Equal(t, "NC", inc.Location.State)
		assert.Equal(t, 35.2271, inc.Location.Lat)
		assert.Equal(t, -80.8431, inc.Location.Lng)
		assert.Equal(t, domain.ActivityCheckpoint, inc.ActivityType)
		assert.Equal(t, domain.VerificationModerator, inc.Verification)
		assert.Equal(t, 0.75, inc.Confidence)
	})

	t.Run("unmoderated marker is community", func(t *testing.T) {
		body := `[{
			"id": "b1c2",
			"latitude": 34.05,
			"longitude": -118.24,
			"title": "vans staged in parking lot",
			"marker_type": "",
			"address": "701 S Grand Ave",
			"created_at": "2026-01-18T11:00:00Z",
			"moderation_status": "pending"
		}]`
		incidents, err := ParseMarkers([]byte(body))
		require.NoError(t, err)
		require.Len(t, incidents, 1)

		inc := incidents[0]
		assert.Equal(t, "ojonc-b1c2", inc.ID)
		// Title substitutes for a missing description.
		assert.Equal(t, "vans staged in parking lot", inc.Description)
		assert.Equal(t, "701 S Grand Ave", inc.Location.City)
		assert.Equal(t, domain.ActivityPresence, inc.ActivityType)
		assert.Equal(t, domain.VerificationCommunity, inc.Verification)
		assert.Equal(t, 0.55, inc.Confidence)
	})

	t.Run("invalid coordinates map to no value", func(t *testing.T) {
		body := `[
			{"id": 1, "latitude": "not a number", "longitude": -80.1, "created_at": "2026-01-18T09:00:00Z"},
			{"id": 2, "latitude": 0, "longitude": -80.1, "created_at": "2026-01-18T09:00:00Z"},
			{"id": 3, "latitude": 35.2, "longitude": -80.1, "created_at": "2026-01-18T09:00:00Z"}
		]`
		incidents, err := ParseMarkers([]byte(body))
		require.NoError(t, err)
		require.Len(t, incidents, 1)
		assert.Equal(t, "ojonc-3", incidents[0].ID)
	})

	t.Run("invalid state code left empty", func(t *testing.T) {
		body := `[{"id": 4, "latitude": 35.2, "longitude": -80.1, "state": "XX", "created_at": "2026-01-18T09:00:00Z"}]`
		incidents, err := ParseMarkers([]byte(body))
		require.NoError(t, err)
		require.Len(t, incidents, 1)
		assert.Equal(t, "", incidents[0].Location.State)
	})

	t.Run("missing id synthesizes from description and created_at", func(t *testing.T) {
		body := `[{"latitude": 35.2, "longitude": -80.1, "description": "sighting", "created_at": "2026-01-18T09:00:00Z"}]`
		first, err := ParseMarkers([]byte(body))
		require.NoError(t, err)
		second, err := ParseMarkers([]byte(body))
		require.NoError(t, err)

		require.Len(t, first, 1)
		assert.Equal(t, first[0].ID, second[0].ID)
		assert.Contains(t, first[0].ID, "ojonc-")
	})

	t.Run("non-array payload is an error", func(t *testing.T) {
		_, err := ParseMarkers([]byte(`{"error": "unauthorized"}`))
		require.Error(t, err)
	})
}

func TestParseStats(t *testing.T) {
	t.Run("full document", func(t *testing.T) {
		body := `{"fields": {
			"daily_arrests": {"integerValue": "120"},
			"daily_deportations": {"integerValue": "45"},
			"daily_detentions": {"stringValue": "300"},
			"total_arrests": {"integerValue": "10250"},
			"total_deportations": {"integerValue": "4100"},
			"total_detentions": {"integerValue": "22000"},
			"lastUpdated": {"timestampValue": "2026-01-18T06:00:00Z"}
		}}`
		stats, err := ParseStats([]byte(body))
		require.NoError(t, err)
		require.NotNil(t, stats)

		assert.Equal(t, 120, stats.DailyArrests)
		assert.Equal(t, 45, stats.DailyDeportations)
		assert.Equal(t, 300, stats.DailyDetentions)
		assert.Equal(t, 10250, stats.TotalArrests)
		assert.Equal(t, 4100, stats.TotalDeportations)
		assert.Equal(t, 22000, stats.TotalDetentions)
		assert.Equal(t, "2026-01-18T06:00:00Z", stats.LastUpdated)
	})

	t.Run("missing counters default to zero", func(t *testing.T) {
		body := `{"fields": {"daily_arrests": {"integerValue": "oops"}}}`
		stats, err := ParseStats([]byte(body))
		require.NoError(t, err)
		require.NotNil(t, stats)
		assert.Equal(t, 0, stats.DailyArrests)
		assert.Equal(t, 0, stats.TotalDetentions)
	})

	t.Run("no fields container means no stats", func(t *testing.T) {
		stats, err := ParseStats([]byte(`{"name": "projects/x/documents/stats"}`))
		require.NoError(t, err)
		assert.Nil(t, stats)
	})

	t.Run("malformed payload is an error", func(t *testing.T) {
		_, err := ParseStats([]byte(`{not json`))
		require.Error(t, err)
	})
}
