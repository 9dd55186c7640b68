package verdict

import (
	"strings"
	"time"

	"linksafety/riskscore"
)

// Thresholds define the score cut points of the decision table. The table is
// the authority for combining lookup and score; there is no weighted average.
type Thresholds struct {
	DangerousOver  int `json:"dangerous_over"`  // total score strictly above -> dangerous
	SuspiciousFrom int `json:"suspicious_from"` // total score at or above -> suspicious
}

// DefaultThresholds returns the standard cut points.
func DefaultThresholds() Thresholds {
	return Thresholds{DangerousOver: 60, SuspiciousFrom: 30}
}

// Combine merges a lookup outcome (nil when the lookup was unavailable) with a
// risk breakdown using the default thresholds.
func Combine(url string, lookup *LookupOutcome, score riskscore.Breakdown) FinalVerdict {
	return CombineWithThresholds(url, lookup, score, DefaultThresholds())
}

// CombineWithThresholds is Combine with explicit cut points. It is
// deterministic and total: every lookup/score pair yields a verdict.
func CombineWithThresholds(url string, lookup *LookupOutcome, score riskscore.Breakdown, t Thresholds) FinalVerdict {
	v := FinalVerdict{
		URL:              url,
		Classification:   classify(lookup, score.TotalScore, t),
		ThreatCategories: []string{},
		RiskBreakdown:    score,
		Reasons:          buildReasons(lookup, score),
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	}
	if lookup != nil {
		c := lookup.Classification
		v.LookupAvailable = true
		v.LookupClassification = &c
		v.ThreatCategories = append(v.ThreatCategories, lookup.ThreatTypes...)
	}
	return v
}

// classify applies the decision table in order; the first matching row wins.
// A dangerous lookup or a score above DangerousOver always dominates; a safe
// lookup can be escalated by the score but never de-escalates it.
func classify(lookup *LookupOutcome, total int, t Thresholds) Class {
	if lookup == nil {
		switch {
		case total > t.DangerousOver:
			return Dangerous
		case total >= t.SuspiciousFrom:
			return Suspicious
		default:
			return Safe
		}
	}

	if lookup.Classification == Dangerous || total > t.DangerousOver {
		return Dangerous
	}
	if lookup.Classification == Suspicious || (lookup.Classification == Safe && total >= t.SuspiciousFrom) {
		return Suspicious
	}
	return Safe
}

// buildReasons assembles the evidence list: the lookup-derived reason first,
// then the reason of every positively scoring check in fixed check order.
func buildReasons(lookup *LookupOutcome, score riskscore.Breakdown) []string {
	var reasons []string

	switch {
	case lookup == nil:
		reasons = append(reasons, "Google Safe Browsing API unavailable - using rule-based analysis only")
	case len(lookup.ThreatTypes) > 0:
		reasons = append(reasons, "Google Safe Browsing detected threats: "+strings.Join(lookup.ThreatTypes, ", "))
	default:
		reasons = append(reasons, "Google Safe Browsing reports no known threats")
	}

	for _, c := range score.Checks.InOrder() {
		if c.Score > 0 {
			reasons = append(reasons, c.Reason)
		}
	}

	if len(reasons) == 0 {
		reasons = append(reasons, "No security concerns detected")
	}
	return reasons
}
