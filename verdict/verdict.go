// Package verdict merges the remote lookup outcome with the local heuristic
// risk score into the final classification record handed to every collaborator
// (front end, history store, exporter).
package verdict

import (
	"encoding/json"
	"fmt"
	"strings"

	"linksafety/riskscore"
)

// Class is the closed safety classification for a URL.
type Class string

const (
	Safe       Class = "safe"
	Suspicious Class = "suspicious"
	Dangerous  Class = "dangerous"
)

// LookupOutcome is the combiner's view of a successful remote lookup: the
// classification the gateway derived and the deduplicated threat category
// labels, in first-seen order.
type LookupOutcome struct {
	Classification Class
	ThreatTypes    []string
}

// FinalVerdict is the immutable result of one URL analysis. The JSON field set
// and nesting are a stable contract; history persistence and export formatting
// pattern-match on them.
type FinalVerdict struct {
	URL                  string              `json:"url"`
	Classification       Class               `json:"classification"`
	LookupAvailable      bool                `json:"lookup_available"`
	LookupClassification *Class              `json:"lookup_classification"`
	ThreatCategories     []string            `json:"threat_categories"`
	RiskBreakdown        riskscore.Breakdown `json:"risk_breakdown"`
	Reasons              []string            `json:"reasons"`
	Timestamp            string              `json:"timestamp"`
}

func (v FinalVerdict) IsSafe() bool       { return v.Classification == Safe }
func (v FinalVerdict) IsSuspicious() bool { return v.Classification == Suspicious }
func (v FinalVerdict) IsDangerous() bool  { return v.Classification == Dangerous }

// Summary returns a one-line human-readable digest of the verdict.
func (v FinalVerdict) Summary() string {
	avail := "unavailable"
	if v.LookupAvailable {
		avail = "available"
	}
	return fmt.Sprintf("%s | Risk Score: %d/100 | Lookup: %s",
		strings.ToUpper(string(v.Classification)), v.RiskBreakdown.TotalScore, avail)
}

// Serialize renders the canonical structured form of the verdict.
func (v FinalVerdict) Serialize() ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("verdict: serialize: %w", err)
	}
	return data, nil
}

// ParseVerdict is the inverse of Serialize.
func ParseVerdict(data []byte) (FinalVerdict, error) {
	var v FinalVerdict
	if err := json.Unmarshal(data, &v); err != nil {
		return FinalVerdict{}, fmt.Errorf("verdict: parse: %w", err)
	}
	return v, nil
}
