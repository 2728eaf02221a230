// Package domain models normalized enforcement-activity incident reports.
//
// # Data Sources
//
// Incidents arrive from three community-run feeds plus a pre-baked static
// fallback document:
//
//   - Tag-delimited alert feed ("stop_ice"): repeated <map_data> blocks in a
//     pseudo-XML text body. Fields of interest: lat, long, message or
//     description, timestamp or date, id or alert_id, location or address,
//     status. Timestamps look like "Jan 17, 2026 (15:15:54) PST".
//   - Marker document feed ("ojonc"): a JSON array of marker rows from a
//     document store, authenticated with bearer-token headers. Coordinates
//     are strings or numbers depending on row age; moderation_status
//     "approved" marks moderator-vetted rows.
//   - Statistics feed ("deportation_tracker"): a Firestore-style document
//     whose "fields" object wraps every value with a type tag
//     (integerValue, stringValue, timestampValue). Carries six counters,
//     no incidents.
//
// # Normalization Conventions
//
// Timestamps canonicalize to RFC3339 UTC; anything unparseable degrades to
// the current instant rather than dropping the record (see
// [NormalizeTimestamp]). Coordinates are mandatory: records without finite,
// non-zero lat/lng are discarded before entering the model (see
// [ValidCoordinates]).
//
// Activity type and verification tier are inferred from free text through
// ordered keyword rule tables (see classify.go). Table order is the
// precedence contract: arrest keywords are checked before raid keywords, so
// "ICE arrest during raid operation" classifies as an arrest.
//
// # ID Generation
//
// Incident ids are "<source>-<upstream id>" when the feed provides an id,
// otherwise "<source>-<hash>" where the hash is a 31-multiplier rolling
// hash of description+timestamp with 32-bit signed wraparound (see
// [HashID]). The hash must remain bit-compatible with previously generated
// static datasets, since id equality is what dedupes live records against
// the fallback.
package domain
