package domain

import (
	"regexp"
	"sort"
	"strings"
)

// stateNames maps every US state, DC, and the inhabited territories to
// their postal abbreviation. Keys are lowercase full names for the
// name-scan fallback in ParseCityState.
var stateNames = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
	"florida": "FL", "georgia": "GA", "hawaii": "HI", "idaho": "ID",
	"illinois": "IL", "indiana": "IN", "iowa": "IA", "kansas": "KS",
	"kentucky": "KY", "louisiana": "LA", "maine": "ME", "maryland": "MD",
	"massachusetts": "MA", "michigan": "MI", "minnesota": "MN", "mississippi": "MS",
	"missouri": "MO", "montana": "MT", "nebraska": "NE", "nevada": "NV",
	"new hampshire": "NH", "new jersey": "NJ", "new mexico": "NM", "new york": "NY",
	"north carolina": "NC", "north dakota": "ND", "ohio": "OH", "oklahoma": "OK",
	"oregon": "OR", "pennsylvania": "PA", "rhode island": "RI", "south carolina": "SC",
	"south dakota": "SD", "tennessee": "TN", "texas": "TX", "utah": "UT",
	"vermont": "VT", "virginia": "VA", "washington": "WA", "west virginia": "WV",
	"wisconsin": "WI", "wyoming": "WY", "district of columbia": "DC",
	"puerto rico": "PR", "guam": "GU", "american samoa": "AS",
	"u.s. virgin islands": "VI", "northern mariana islands": "MP",
}

var stateAbbrs = func() map[string]bool {
	m := make(map[string]bool, len(stateNames))
	for _, abbr := range stateNames {
		m[abbr] = true
	}
	return m
}()

// stateNameList orders full names longest-first so "west virginia" wins
// over its "virginia" suffix during the name scan.
var stateNameList = func() []string {
	names := make([]string, 0, len(stateNames))
	for name := range stateNames {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return names
}()

var (
	// ", CA" or ", CA 94110"
	commaAbbrRe = regexp.MustCompile(`,\s*([A-Z]{2})\b`)
	// "CA 94110" without a comma
	abbrZipRe = regexp.MustCompile(`\b([A-Z]{2})\s*\d{5}`)
	spaceRe   = regexp.MustCompile(`\s+`)
	tokenRe   = regexp.MustCompile(`[\s,]+`)
)

// ValidStateCode reports whether code is a known state/territory
// abbreviation (case-insensitive).
func ValidStateCode(code string) bool {
	return stateAbbrs[strings.ToUpper(strings.TrimSpace(code))]
}

// ExtractState pulls a state abbreviation out of a free-text location using
// the comma-abbreviation and abbreviation-before-zip patterns, validated
// against the closed abbreviation set. Unmatched input yields "" rather
// than a guess.
func ExtractState(location string) string {
	for _, re := range []*regexp.Regexp{commaAbbrRe, abbrZipRe} {
		if m := re.FindStringSubmatch(location); m != nil && stateAbbrs[m[1]] {
			return m[1]
		}
	}
	return ""
}

// ParseCityState splits a free-text location like "Durham, NC 27701" or
// "near downtown Phoenix Arizona" into city and state. Strategies are tried
// in order: explicit comma abbreviation, token scan for an abbreviation,
// full state name scan. A miss on all three leaves both results empty-state.
func ParseCityState(value string) (city, state string) {
	cleaned := spaceRe.ReplaceAllString(strings.TrimSpace(value), " ")
	if cleaned == "" {
		return "", ""
	}

	if m := commaAbbrRe.FindStringSubmatch(cleaned); m != nil && stateAbbrs[m[1]] {
		return strings.TrimSpace(strings.SplitN(cleaned, ",", 2)[0]), m[1]
	}

	tokens := tokenRe.Split(cleaned, -1)
	for i, tok := range tokens {
		if stateAbbrs[tok] {
			return strings.TrimSpace(strings.Join(tokens[:i], " ")), tok
		}
	}

	lowered := strings.ToLower(cleaned)
	for _, name := range stateNameList {
		if idx := strings.Index(lowered, name); idx >= 0 {
			return strings.Trim(cleaned[:idx], " ,"), stateNames[name]
		}
	}

	return "", ""
}
