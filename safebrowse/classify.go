package safebrowse

import (
	"encoding/json"
	"time"

	"linksafety/verdict"
)

// Severity sets for mapping threat category labels to a classification.
var (
	highSeverity = map[string]bool{
		"MALWARE":            true,
		"SOCIAL_ENGINEERING": true,
		"UNWANTED_SOFTWARE":  true,
	}
	mediumSeverity = map[string]bool{
		"POTENTIALLY_HARMFUL_APPLICATION": true,
	}
)

// Result is the normalized outcome of a successful lookup. It is immutable
// once constructed and owned by the caller that requested the lookup.
type Result struct {
	URL            string
	Classification verdict.Class
	ThreatTypes    []string
	Raw            json.RawMessage
	ObservedAt     time.Time
}

// Classify maps a match set to a classification. Empty set: safe. Any
// high-severity label: dangerous. Otherwise any medium-severity label, or only
// unrecognized labels: suspicious — unknown categories fail toward caution,
// never toward safe. Duplicate labels are dropped, first-seen order kept.
func Classify(targetURL string, matches []Match, raw json.RawMessage) *Result {
	res := &Result{
		URL:            targetURL,
		Classification: verdict.Safe,
		Raw:            raw,
		ObservedAt:     time.Now().UTC(),
	}
	if len(matches) == 0 {
		return res
	}

	seen := make(map[string]bool)
	for _, m := range matches {
		if m.ThreatType == "" || seen[m.ThreatType] {
			continue
		}
		seen[m.ThreatType] = true
		res.ThreatTypes = append(res.ThreatTypes, m.ThreatType)
	}

	var hasHigh, hasMedium bool
	for _, t := range res.ThreatTypes {
		hasHigh = hasHigh || highSeverity[t]
		hasMedium = hasMedium || mediumSeverity[t]
	}

	switch {
	case hasHigh:
		res.Classification = verdict.Dangerous
	case hasMedium:
		res.Classification = verdict.Suspicious
	default:
		// Labels outside both sets still mean the URL is on a threat list.
		res.Classification = verdict.Suspicious
	}
	return res
}
