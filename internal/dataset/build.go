// Package dataset builds the static fallback document served when live
// feeds are unreachable. Unlike the live merge path, which dedupes on id
// only, the builder cross-correlates records from different sources that
// describe the same underlying event.
package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/couchcryptid/incident-feed-service/internal/domain"
)

const (
	// Two records within this window, radius, and text similarity are
	// treated as the same event seen by different sources.
	dedupWindow        = 2 * time.Hour
	dedupRadiusKm      = 1.0
	dedupMinSimilarity = 0.75

	// Corroboration by a second source is worth a confidence boost.
	corroborationBoost = 0.10
)

var (
	vagueTerms = []string{"maybe", "possible", "possibly", "seems", "unclear"}
	rumorTerms = []string{"rumor", "unconfirmed"}
)

// AdjustConfidence applies content-quality signals to a normalized
// incident: short or hedging descriptions lose confidence, rumor language
// loses more. The result is clamped to [0,1].
func AdjustConfidence(inc domain.Incident) domain.Incident {
	c := inc.Confidence
	if hasVagueLanguage(inc.Description) {
		c -= 0.15
	}
	if hasRumorLanguage(inc.Description) {
		c -= 0.20
	}
	inc.Confidence = clamp(c)
	return inc
}

func hasVagueLanguage(text string) bool {
	if text == "" {
		return true
	}
	lowered := strings.ToLower(text)
	if len(lowered) < 40 {
		return true
	}
	for _, term := range vagueTerms {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}

func hasRumorLanguage(text string) bool {
	lowered := strings.ToLower(text)
	for _, term := range rumorTerms {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Deduplicate merges records that describe the same event across sources:
// close in time, close in space, and textually similar. The survivor keeps
// the longer description and the higher-confidence record's fields, gains a
// corroboration boost, and gets a rebuilt id reflecting its merged
// identity. Input order does not matter; records are processed oldest
// first.
func Deduplicate(incidents []domain.Incident) []domain.Incident {
	sorted := make([]domain.Incident, len(incidents))
	copy(sorted, incidents)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ReportedAt < sorted[j].ReportedAt
	})

	var merged []domain.Incident
	for _, inc := range sorted {
		idx := findMatch(merged, inc)
		if idx < 0 {
			merged = append(merged, inc)
			continue
		}
		merged[idx] = mergeRecords(merged[idx], inc)
	}

	for i := range merged {
		seed := fmt.Sprintf("%s|%s|%g|%g|%s",
			merged[i].Source, merged[i].ReportedAt,
			merged[i].Location.Lat, merged[i].Location.Lng,
			merged[i].Description,
		)
		merged[i].ID = "inc-" + domain.HashID(seed)
	}
	return merged
}

func findMatch(merged []domain.Incident, inc domain.Incident) int {
	t1 := domain.ParseReportedAt(inc.ReportedAt)
	if t1.IsZero() {
		return -1
	}
	for i, existing := range merged {
		t2 := domain.ParseReportedAt(existing.ReportedAt)
		if t2.IsZero() {
			continue
		}
		if absDuration(t1.Sub(t2)) > dedupWindow {
			continue
		}
		if haversineKm(inc.Location.Lat, inc.Location.Lng, existing.Location.Lat, existing.Location.Lng) > dedupRadiusKm {
			continue
		}
		if similarity(inc.Description, existing.Description) < dedupMinSimilarity {
			continue
		}
		return i
	}
	return -1
}

func mergeRecords(base, inc domain.Incident) domain.Incident {
	base.Source = unionSources(base.Source, inc.Source)
	if len(inc.Description) > len(base.Description) {
		base.Description = inc.Description
	}
	if inc.Confidence > base.Confidence {
		base.Confidence = inc.Confidence
		base.Location = inc.Location
		base.ActivityType = inc.ActivityType
		base.Verification = inc.Verification
		base.ReportedAt = inc.ReportedAt
	}
	base.Confidence = clamp(base.Confidence + corroborationBoost)
	return base
}

// unionSources joins contributing source tags with ";" in sorted order, so
// a corroborated record reads e.g. "ojonc;stop_ice".
func unionSources(a, b domain.Source) domain.Source {
	set := map[string]bool{}
	for _, s := range strings.Split(string(a)+";"+string(b), ";") {
		if s = strings.TrimSpace(s); s != "" {
			set[s] = true
		}
	}
	tags := make([]string, 0, len(set))
	for s := range set {
		tags = append(tags, s)
	}
	sort.Strings(tags)
	return domain.Source(strings.Join(tags, ";"))
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// haversineKm computes the great-circle distance between two WGS-84 points.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// similarity scores two descriptions in [0,1] as twice the longest common
// subsequence over the combined length, case- and whitespace-insensitive.
func similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	lcs := lcsLength(a, b)
	return 2 * float64(lcs) / float64(len(a)+len(b))
}

func lcsLength(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// Build assembles the fallback document from refined, deduplicated
// incidents, sorted most recent first.
func Build(incidents []domain.Incident, stats *domain.Stats, generatedAt time.Time) domain.StaticDataset {
	refined := make([]domain.Incident, 0, len(incidents))
	for _, inc := range incidents {
		refined = append(refined, AdjustConfidence(inc))
	}
	refined = Deduplicate(refined)

	sort.SliceStable(refined, func(i, j int) bool {
		return domain.ParseReportedAt(refined[i].ReportedAt).After(domain.ParseReportedAt(refined[j].ReportedAt))
	})

	latest := ""
	if len(refined) > 0 {
		latest = refined[0].ReportedAt
	}

	return domain.StaticDataset{
		Incidents:        refined,
		Stats:            stats,
		LatestReportedAt: latest,
		GeneratedAt:      generatedAt.UTC().Format(time.RFC3339),
	}
}

// GroupByState buckets incidents by state code; records without a state
// are omitted.
func GroupByState(incidents []domain.Incident) map[string][]domain.Incident {
	buckets := make(map[string][]domain.Incident)
	for _, inc := range incidents {
		if inc.Location.State == "" {
			continue
		}
		buckets[inc.Location.State] = append(buckets[inc.Location.State], inc)
	}
	return buckets
}

// GroupByDate buckets incidents by UTC calendar date of reported_at;
// unparseable timestamps land under "unknown".
func GroupByDate(incidents []domain.Incident) map[string][]domain.Incident {
	buckets := make(map[string][]domain.Incident)
	for _, inc := range incidents {
		key := "unknown"
		if t := domain.ParseReportedAt(inc.ReportedAt); !t.IsZero() {
			key = t.UTC().Format("2006-01-02")
		}
		buckets[key] = append(buckets[key], inc)
	}
	return buckets
}
