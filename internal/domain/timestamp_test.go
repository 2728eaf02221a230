package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeTimestamp(t *testing.T) {
	frozen := time.Date(2026, 1, 20, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(frozen))
	defer SetClock(nil)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"rfc3339", "2026-01-17T23:15:54Z", "2026-01-17T23:15:54Z"},
		{"rfc3339 with offset", "2026-01-17T15:15:54-08:00", "2026-01-17T23:15:54Z"},
		{"loose iso without zone", "2026-01-17T23:15:54", "2026-01-17T23:15:54Z"},
		{"us numeric with time", "1/17/2026 15:15", "2026-01-17T15:15:00Z"},
		{"us numeric with seconds", "01/17/2026 15:15:54", "2026-01-17T15:15:54Z"},
		{"date only", "2026-01-17", "2026-01-17T00:00:00Z"},
		{"tag feed format", "Jan 17, 2026 (15:15:54) PST", "2026-01-17T23:15:54Z"},
		{"tag feed lowercase month", "jan 17, 2026 (15:15:54) PST", "2026-01-17T23:15:54Z"},
		{"empty degrades to now", "", "2026-01-20T12:00:00Z"},
		{"garbage degrades to now", "yesterday-ish", "2026-01-20T12:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeTimestamp(tt.input))
		})
	}
}

func TestParseReportedAt(t *testing.T) {
	t.Run("canonical value", func(t *testing.T) {
		got := ParseReportedAt("2026-01-17T23:15:54Z")
		assert.Equal(t, time.Date(2026, 1, 17, 23, 15, 54, 0, time.UTC), got)
	})

	t.Run("unparseable is zero time", func(t *testing.T) {
		assert.True(t, ParseReportedAt("not a date").IsZero())
	})
}
