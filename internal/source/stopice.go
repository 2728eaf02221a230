package source

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/couchcryptid/incident-feed-service/internal/domain"
)

// mapDataRe matches one alert block in the tag-delimited feed body.
var mapDataRe = regexp.MustCompile(`(?is)<map_data>(.*?)</map_data>`)

// tagRes caches one extraction regexp per known tag. The feed is not real
// XML (unbalanced entities, stray markup), so tag extraction is pattern
// matching, same as the upstream consumers do.
var tagRes = func() map[string]*regexp.Regexp {
	tags := []string{
		"lat", "long", "message", "description", "timestamp", "date",
		"id", "alert_id", "location", "address", "status",
	}
	m := make(map[string]*regexp.Regexp, len(tags))
	for _, tag := range tags {
		m[tag] = regexp.MustCompile(`(?is)<` + tag + `>(.*?)</` + tag + `>`)
	}
	return m
}()

// ErrNoMapData is returned when the payload contains no alert blocks at
// all, meaning the body is not the expected feed shape (login page, error
// HTML, empty response).
var ErrNoMapData = errors.New("no map_data blocks in payload")

// ParseStopICE converts the tag-delimited alert feed body into normalized
// incidents. Individual malformed blocks are skipped; only a body with no
// blocks at all is an error.
func ParseStopICE(body []byte) ([]domain.Incident, error) {
	blocks := mapDataRe.FindAllStringSubmatch(string(body), -1)
	if len(blocks) == 0 {
		return nil, ErrNoMapData
	}

	incidents := make([]domain.Incident, 0, len(blocks))
	for _, m := range blocks {
		if inc, ok := parseMapDataBlock(m[1]); ok {
			incidents = append(incidents, inc)
		}
	}
	return incidents, nil
}

func parseMapDataBlock(block string) (domain.Incident, bool) {
	get := func(tags ...string) string {
		for _, tag := range tags {
			if m := tagRes[tag].FindStringSubmatch(block); m != nil {
				if v := strings.TrimSpace(m[1]); v != "" {
					return v
				}
			}
		}
		return ""
	}

	lat, errLat := strconv.ParseFloat(get("lat"), 64)
	lng, errLng := strconv.ParseFloat(get("long"), 64)
	if errLat != nil || errLng != nil || !domain.ValidCoordinates(lat, lng) {
		return domain.Incident{}, false
	}

	description := get("message", "description")
	timestamp := get("timestamp", "date")
	location := get("location", "address")
	status := get("status")

	verification := domain.ClassifyVerification(status)

	city := location
	if i := strings.Index(location, ","); i >= 0 {
		city = location[:i]
	}

	return domain.Incident{
		ID:           domain.SynthesizeID("stopice", get("id", "alert_id"), description+timestamp),
		Source:       domain.SourceStopICE,
		ReportedAt:   domain.NormalizeTimestamp(timestamp),
		Location: domain.Location{
			City:  strings.TrimSpace(city),
			State: domain.ExtractState(location),
			Lat:   lat,
			Lng:   lng,
		},
		ActivityType: domain.ClassifyActivity(description),
		Description:  description,
		Verification: verification,
		Confidence:   domain.Confidence(verification, domain.SourceStopICE),
	}, true
}
