package domain

// Source identifies which upstream feed an incident came from.
type Source string

const (
	SourceStopICE            Source = "stop_ice"
	SourceOJONC              Source = "ojonc"
	SourceDeportationTracker Source = "deportation_tracker"
	SourceStatic             Source = "static"
)

// Activity classifies what was observed. The set is closed; free-text
// descriptions are mapped onto it by the rule table in classify.go.
type Activity string

const (
	ActivityPresence   Activity = "presence"
	ActivityArrest     Activity = "arrest"
	ActivityCheckpoint Activity = "checkpoint"
	ActivityRaid       Activity = "raid"
)

// Verification ranks an incident's provenance:
// verified > moderator > community > unverified.
type Verification string

const (
	VerificationVerified   Verification = "verified"
	VerificationModerator  Verification = "moderator"
	VerificationCommunity  Verification = "community"
	VerificationUnverified Verification = "unverified"
)

// Location holds the incident's place. Lat/Lng are mandatory: records
// without finite, non-zero coordinates never enter the model.
type Location struct {
	City  string  `json:"city"`
	State string  `json:"state"` // two-letter code, empty when unknown
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
}

// Incident is the normalized record shared by every source.
type Incident struct {
	ID           string       `json:"id"`
	Source       Source       `json:"source"`
	ReportedAt   string       `json:"reported_at"` // RFC3339 UTC
	Location     Location     `json:"location"`
	ActivityType Activity     `json:"activity_type"`
	Description  string       `json:"description,omitempty"`
	Verification Verification `json:"verification"`
	Confidence   float64      `json:"confidence"`
}

// Stats carries the aggregate counters published by the statistics feed.
type Stats struct {
	DailyArrests      int    `json:"daily_arrests"`
	DailyDeportations int    `json:"daily_deportations"`
	DailyDetentions   int    `json:"daily_detentions"`
	TotalArrests      int    `json:"total_arrests"`
	TotalDeportations int    `json:"total_deportations"`
	TotalDetentions   int    `json:"total_detentions"`
	LastUpdated       string `json:"lastUpdated"`
}

// SourceStatus records the outcome of the most recent fetch of one source.
// Observability only; it never drives control flow.
type SourceStatus struct {
	Status    string `json:"status"` // "ok" or "error"
	Count     int    `json:"count,omitempty"`
	Error     string `json:"error,omitempty"`
	FetchedAt string `json:"fetchedAt,omitempty"`
}

// StaticDataset is the pre-baked fallback document generated by cmd/builddata.
type StaticDataset struct {
	Incidents        []Incident `json:"incidents"`
	Stats            *Stats     `json:"stats,omitempty"`
	LatestReportedAt string     `json:"latest_reported_at,omitempty"`
	GeneratedAt      string     `json:"generated_at,omitempty"`
}

// ValidCoordinates reports whether lat/lng are usable: both present,
// finite, and non-zero (0,0 is the null island sentinel upstream feeds
// emit for unknown positions).
func ValidCoordinates(lat, lng float64) bool {
	if lat == 0 || lng == 0 {
		return false
	}
	if lat != lat || lng != lng { // NaN
		return false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return false
	}
	return true
}
