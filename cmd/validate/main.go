// Command validate runs integrity checks over a static dataset produced by
// builddata: timestamp parseability, id uniqueness, the coordinate gate,
// state codes, recency ordering, and confidence bounds. Exits non-zero when
// any phase fails.
//
// Usage:
//
//	go run ./cmd/validate -dataset data/index.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/couchcryptid/incident-feed-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	path := flag.String("dataset", "data/index.json", "path to the static dataset")
	flag.Parse()

	if code := run(*path); code != 0 {
		os.Exit(code)
	}
}

func run(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read dataset: %v\n", err)
		return 1
	}

	var ds domain.StaticDataset
	if err := json.Unmarshal(data, &ds); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: parse dataset: %v\n", err)
		return 1
	}

	fmt.Println("=== Incident Dataset Validation ===")
	fmt.Println()

	phases := []*phase{
		validateTimestamps(ds.Incidents),
		validateIDs(ds.Incidents),
		validateCoordinates(ds.Incidents),
		validateStates(ds.Incidents),
		validateOrdering(ds.Incidents),
		validateConfidence(ds.Incidents),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-32s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d incidents, generated %s\n", len(ds.Incidents), ds.GeneratedAt)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i >= 20 {
				fmt.Printf("  ... and %d more\n", len(p.errors)-i)
				break
			}
			fmt.Printf("  %s\n", e)
		}
	}

	if !allPassed {
		return 1
	}
	return 0
}

func validateTimestamps(incidents []domain.Incident) *phase {
	p := &phase{name: "Timestamp parseability"}
	for _, inc := range incidents {
		if domain.ParseReportedAt(inc.ReportedAt).IsZero() {
			p.errorf("%s: unparseable reported_at %q", inc.ID, inc.ReportedAt)
		}
	}
	return p
}

func validateIDs(incidents []domain.Incident) *phase {
	p := &phase{name: "ID uniqueness"}
	seen := map[string]bool{}
	for _, inc := range incidents {
		if inc.ID == "" {
			p.errorf("record with empty id (source %s)", inc.Source)
			continue
		}
		if seen[inc.ID] {
			p.errorf("duplicate id %s", inc.ID)
		}
		seen[inc.ID] = true
	}
	return p
}

func validateCoordinates(incidents []domain.Incident) *phase {
	p := &phase{name: "Coordinate gate"}
	for _, inc := range incidents {
		if !domain.ValidCoordinates(inc.Location.Lat, inc.Location.Lng) {
			p.errorf("%s: invalid coordinates (%g, %g)", inc.ID, inc.Location.Lat, inc.Location.Lng)
		}
	}
	return p
}

func validateStates(incidents []domain.Incident) *phase {
	p := &phase{name: "State codes"}
	for _, inc := range incidents {
		state := inc.Location.State
		if state == "" {
			continue // stateless records are allowed, they just don't filter
		}
		if !domain.ValidStateCode(strings.ToUpper(state)) {
			p.errorf("%s: unknown state code %q", inc.ID, state)
		}
	}
	return p
}

func validateOrdering(incidents []domain.Incident) *phase {
	p := &phase{name: "Recency ordering"}
	for i := 1; i < len(incidents); i++ {
		prev := domain.ParseReportedAt(incidents[i-1].ReportedAt)
		cur := domain.ParseReportedAt(incidents[i].ReportedAt)
		if prev.IsZero() || cur.IsZero() {
			continue // unparseable timestamps are caught by their own phase
		}
		if cur.After(prev) {
			p.errorf("index %d (%s) is newer than index %d (%s)",
				i, incidents[i].ReportedAt, i-1, incidents[i-1].ReportedAt)
		}
	}
	return p
}

func validateConfidence(incidents []domain.Incident) *phase {
	p := &phase{name: "Confidence bounds"}
	for _, inc := range incidents {
		if inc.Confidence < 0 || inc.Confidence > 1 {
			p.errorf("%s: confidence %g out of [0,1]", inc.ID, inc.Confidence)
		}
	}
	return p
}
