package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCityState(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedCity  string
		expectedState string
	}{
		{"comma abbreviation", "Durham, NC", "Durham", "NC"},
		{"comma abbreviation with zip", "Durham, NC 27701", "Durham", "NC"},
		{"token abbreviation", "Phoenix AZ", "Phoenix", "AZ"},
		{"full state name", "near downtown Phoenix Arizona", "near downtown Phoenix", "AZ"},
		{"west virginia not virginia", "Charleston West Virginia", "Charleston", "WV"},
		{"collapsed whitespace", "  Los   Angeles,  CA ", "Los Angeles", "CA"},
		{"no state", "Main St at 5th Ave", "", ""},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			city, state := ParseCityState(tt.input)
			assert.Equal(t, tt.expectedCity, city)
			assert.Equal(t, tt.expectedState, state)
		})
	}
}

func TestExtractState(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"comma pattern", "123 Elm St, Raleigh, NC", "NC"},
		{"zip pattern", "Raleigh NC 27601", "NC"},
		{"invalid abbreviation rejected", "Springfield, ZZ", ""},
		{"uppercase word not mistaken for state", "Corner of MAIN and 1st", ""},
		{"no pattern", "somewhere downtown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractState(tt.input))
		})
	}
}

func TestValidStateCode(t *testing.T) {
	assert.True(t, ValidStateCode("NC"))
	assert.True(t, ValidStateCode("nc"))
	assert.True(t, ValidStateCode("PR"))
	assert.False(t, ValidStateCode("ZZ"))
	assert.False(t, ValidStateCode(""))
}

func TestValidCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		expected bool
	}{
		{"valid", 35.99, -78.9, true},
		{"zero lat", 0, -78.9, false},
		{"zero lng", 35.99, 0, false},
		{"out of range lat", 91, -78.9, false},
		{"out of range lng", 35.99, -181, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidCoordinates(tt.lat, tt.lng))
		})
	}
}
