package source

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/incident-feed-service/internal/domain"
)

// looseFloat accepts both JSON numbers and numeric strings; older marker
// rows store coordinates as strings.
type looseFloat float64

func (f *looseFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Fail closed: an unparseable coordinate zeroes out and the
		// coordinate gate drops the record instead of erroring the batch.
		*f = 0
		return nil
	}
	*f = looseFloat(v)
	return nil
}

// looseString accepts strings and bare numbers (marker ids were migrated
// from integer to uuid at some point).
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	trimmed := strings.Trim(string(data), `"`)
	if trimmed == "null" {
		*s = ""
		return nil
	}
	*s = looseString(trimmed)
	return nil
}

// markerRecord is the explicit response schema for one row of the marker
// document feed.
type markerRecord struct {
	ID               looseString `json:"id"`
	Latitude         looseFloat  `json:"latitude"`
	Longitude        looseFloat  `json:"longitude"`
	Description      string      `json:"description"`
	Title            string      `json:"title"`
	MarkerType       string      `json:"marker_type"`
	City             string      `json:"city"`
	Address          string      `json:"address"`
	State            string      `json:"state"`
	CreatedAt        string      `json:"created_at"`
	UpdatedAt        string      `json:"updated_at"`
	ModerationStatus string      `json:"moderation_status"`
}

// ParseMarkers converts a marker document-list payload into normalized
// incidents. Rows failing the coordinate gate map to no value rather than
// an error; a top-level non-array payload is an error.
func ParseMarkers(body []byte) ([]domain.Incident, error) {
	var records []markerRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("parse marker payload: %w", err)
	}

	incidents := make([]domain.Incident, 0, len(records))
	for _, rec := range records {
		if inc, ok := mapMarker(rec); ok {
			incidents = append(incidents, inc)
		}
	}
	return incidents, nil
}

func mapMarker(rec markerRecord) (domain.Incident, bool) {
	lat, lng := float64(rec.Latitude), float64(rec.Longitude)
	if !domain.ValidCoordinates(lat, lng) {
		return domain.Incident{}, false
	}

	description := rec.Description
	if description == "" {
		description = rec.Title
	}

	markerType := strings.ToLower(rec.MarkerType)
	if markerType == "" {
		markerType = string(domain.ActivityPresence)
	}

	state := ""
	if domain.ValidStateCode(rec.State) {
		state = strings.ToUpper(rec.State)
	}

	city := rec.City
	if city == "" {
		city = rec.Address
	}

	reportedAt := rec.CreatedAt
	if reportedAt == "" {
		reportedAt = rec.UpdatedAt
	}

	verification := domain.VerificationCommunity
	if rec.ModerationStatus == "approved" {
		verification = domain.VerificationModerator
	}

	return domain.Incident{
		ID:         domain.SynthesizeID("ojonc", string(rec.ID), description+rec.CreatedAt),
		Source:     domain.SourceOJONC,
		ReportedAt: domain.NormalizeTimestamp(reportedAt),
		Location: domain.Location{
			City:  city,
			State: state,
			Lat:   lat,
			Lng:   lng,
		},
		ActivityType: domain.ClassifyActivity(markerType),
		Description:  description,
		Verification: verification,
		Confidence:   domain.Confidence(verification, domain.SourceOJONC),
	}, true
}
