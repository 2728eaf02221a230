package domain

import (
	"strconv"
	"unicode/utf16"
)

// HashID produces a short hex digest of s using the 31-multiplier rolling
// hash with 32-bit signed wraparound. It must stay bit-compatible with the
// hash used when the static fallback datasets were generated, so that a
// record synthesized from the same description+timestamp dedupes against
// them. Collisions are accepted; this is a dedup aid, not a security
// primitive.
func HashID(s string) string {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(u)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 16)
}

// SynthesizeID builds an incident id from a source prefix and either the
// upstream-provided id or, when absent, a hash of the record's descriptive
// seed (description + timestamp).
func SynthesizeID(prefix, upstreamID, seed string) string {
	if upstreamID != "" {
		return prefix + "-" + upstreamID
	}
	return prefix + "-" + HashID(seed)
}
