package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyActivity(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected Activity
	}{
		{"arrest keyword", "two people detained at the courthouse", ActivityArrest},
		{"checkpoint keyword", "Roadblock on highway 70", ActivityCheckpoint},
		{"raid keyword", "workplace raid reported", ActivityRaid},
		{"operation keyword", "large operation underway", ActivityRaid},
		{"arrest beats raid", "ICE arrest during raid operation", ActivityArrest},
		{"checkpoint beats raid", "checkpoint set up for the operation", ActivityCheckpoint},
		{"no keyword defaults to presence", "agents seen parked outside", ActivityPresence},
		{"empty text", "", ActivityPresence},
		{"case insensitive", "CUSTODY transfer observed", ActivityArrest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyActivity(tt.text))
		})
	}
}

func TestClassifyVerification(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		expected Verification
	}{
		{"confirmed", "Confirmed by dispatcher", VerificationVerified},
		{"verified", "verified sighting", VerificationVerified},
		{"unconfirmed", "UNCONFIRMED report", VerificationUnverified},
		{"unconfirmed not treated as confirmed", "unconfirmed", VerificationUnverified},
		{"no status", "", VerificationCommunity},
		{"unrelated status", "active", VerificationCommunity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyVerification(tt.status))
		})
	}
}

func TestConfidence(t *testing.T) {
	assert.Equal(t, 0.85, Confidence(VerificationVerified, SourceStopICE))
	assert.Equal(t, 0.75, Confidence(VerificationModerator, SourceOJONC))
	assert.Equal(t, 0.30, Confidence(VerificationUnverified, SourceStopICE))

	// Community baseline differs per feed.
	assert.Equal(t, 0.65, Confidence(VerificationCommunity, SourceStopICE))
	assert.Equal(t, 0.55, Confidence(VerificationCommunity, SourceOJONC))
	assert.Equal(t, 0.55, Confidence(VerificationCommunity, SourceStatic))
}
