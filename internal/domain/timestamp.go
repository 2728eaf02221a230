package domain

import (
	"strings"
	"time"
)

// altLayouts are the known non-RFC3339 shapes the upstream feeds emit,
// tried in order after a direct RFC3339 parse fails.
var altLayouts = []string{
	"2006-01-02T15:04:05",       // loose ISO, no zone
	"2006-01-02 15:04:05",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"2006-01-02",
}

// pacific approximates the tag feed's hardcoded "PST" suffix. The feed
// never emits PDT, so a fixed offset matches its actual output.
var pacific = time.FixedZone("PST", -8*60*60)

// tagFeedLayout matches the tag feed's own format, e.g. "Jan 17, 2026 (15:15:54) PST".
const tagFeedLayout = "Jan 2, 2006 (15:04:05) MST"

// NormalizeTimestamp converts an arbitrary upstream date string into
// canonical RFC3339 UTC. Unparseable or empty input degrades to the current
// instant rather than failing: a garbled timestamp must never drop a record
// or poison the pipeline.
func NormalizeTimestamp(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return clock.Now().UTC().Format(time.RFC3339)
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC().Format(time.RFC3339)
	}

	for _, layout := range altLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}

	if t, err := time.ParseInLocation(tagFeedLayout, canonicalTagTime(value), pacific); err == nil {
		return t.UTC().Format(time.RFC3339)
	}

	return clock.Now().UTC().Format(time.RFC3339)
}

// canonicalTagTime title-cases the month so lowercase feed output like
// "jan 17, 2026 (15:15:54) PST" still parses.
func canonicalTagTime(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}

// ParseReportedAt parses a canonical (or near-canonical) reported_at value
// for sorting. The zero time is returned for unparseable input so such
// records sink to the end of a recency sort instead of erroring.
func ParseReportedAt(value string) time.Time {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	for _, layout := range altLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
