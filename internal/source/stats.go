package source

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/couchcryptid/incident-feed-service/internal/domain"
)

// statsField is one Firestore-style typed value wrapper: exactly one of the
// members is set depending on the field's declared type.
type statsField struct {
	IntegerValue   string `json:"integerValue"`
	StringValue    string `json:"stringValue"`
	TimestampValue string `json:"timestampValue"`
}

type statsDocument struct {
	Fields map[string]statsField `json:"fields"`
}

func (f statsField) intValue() int {
	raw := f.IntegerValue
	if raw == "" {
		raw = f.StringValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// ParseStats extracts the aggregate counters from a key/value statistics
// document. Missing or unparseable counters default to zero. A document
// without a top-level fields container yields a nil Stats: statistics are
// simply unavailable, which is not an error.
func ParseStats(body []byte) (*domain.Stats, error) {
	var doc statsDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse stats payload: %w", err)
	}
	if doc.Fields == nil {
		return nil, nil
	}

	lastUpdated := doc.Fields["lastUpdated"].TimestampValue
	return &domain.Stats{
		DailyArrests:      doc.Fields["daily_arrests"].intValue(),
		DailyDeportations: doc.Fields["daily_deportations"].intValue(),
		DailyDetentions:   doc.Fields["daily_detentions"].intValue(),
		TotalArrests:      doc.Fields["total_arrests"].intValue(),
		TotalDeportations: doc.Fields["total_deportations"].intValue(),
		TotalDetentions:   doc.Fields["total_detentions"].intValue(),
		LastUpdated:       domain.NormalizeTimestamp(lastUpdated),
	}, nil
}
