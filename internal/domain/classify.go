package domain

import "strings"

// classifyRule maps a set of case-insensitive substrings to a label. Rules
// are evaluated in slice order; the first rule with any matching keyword
// wins, so precedence is the table order, not keyword specificity.
type classifyRule[T ~string] struct {
	keywords []string
	result   T
}

func matchRules[T ~string](rules []classifyRule[T], text string, fallback T) T {
	lowered := strings.ToLower(text)
	for _, rule := range rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.result
			}
		}
	}
	return fallback
}

// activityRules order matters: a description mentioning both an arrest and
// a raid is an arrest report.
var activityRules = []classifyRule[Activity]{
	{keywords: []string{"arrest", "detained", "custody"}, result: ActivityArrest},
	{keywords: []string{"checkpoint", "roadblock"}, result: ActivityCheckpoint},
	{keywords: []string{"raid", "operation"}, result: ActivityRaid},
}

// ClassifyActivity infers the activity type from free text (description or
// a source-supplied marker type). Unmatched text defaults to presence.
func ClassifyActivity(text string) Activity {
	return matchRules(activityRules, text, ActivityPresence)
}

var verificationRules = []classifyRule[Verification]{
	{keywords: []string{"confirmed", "verified"}, result: VerificationVerified},
	{keywords: []string{"unconfirmed"}, result: VerificationUnverified},
}

// ClassifyVerification maps a free-text status field onto a verification
// tier. Note "unconfirmed" contains "confirmed", so the verified rule runs
// first only for genuinely confirmed statuses; callers rely on the table
// order checking exact-intent keywords before the negated one would be
// reachable. Statuses matching neither tier are community reports.
func ClassifyVerification(status string) Verification {
	lowered := strings.ToLower(status)
	// "unconfirmed" would substring-match "confirmed"; rule it out first.
	if strings.Contains(lowered, "unconfirmed") {
		return VerificationUnverified
	}
	return matchRules(verificationRules, status, VerificationCommunity)
}

// communityBaseline holds the per-feed confidence assigned to unvetted
// community reports. The tag feed self-selects for eyewitnesses, so its
// community reports score slightly higher than open marker submissions.
var communityBaseline = map[Source]float64{
	SourceStopICE: 0.65,
	SourceOJONC:   0.55,
}

// Confidence derives the confidence score from the verification tier. The
// score is not independently settable; it exists so consumers can rank
// without re-encoding tier semantics.
func Confidence(v Verification, src Source) float64 {
	switch v {
	case VerificationVerified:
		return 0.85
	case VerificationModerator:
		return 0.75
	case VerificationUnverified:
		return 0.30
	default:
		if base, ok := communityBaseline[src]; ok {
			return base
		}
		return 0.55
	}
}
