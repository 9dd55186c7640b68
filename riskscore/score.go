// Package riskscore computes a deterministic 0-100 heuristic risk score for a
// URL from the URL string alone. It never performs network I/O and never fails:
// a URL a check cannot parse scores 0 on that check.
package riskscore

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Per-check score ceilings. maxRawScore is the sum of the ceilings; it must
// never be edited independently of them.
const (
	lengthScoreLong     = 20
	lengthScoreVeryLong = 40
	ipLiteralScore      = 30
	keywordScoreFew     = 15
	keywordScoreMany    = 30
	tldScore            = 25
	portScore           = 20

	maxRawScore = lengthScoreVeryLong + ipLiteralScore + keywordScoreMany + tldScore + portScore
)

const maxKeywordsInReason = 5

// CheckResult is the uniform outcome of a single heuristic check.
type CheckResult struct {
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// Checks holds the five fixed heuristic checks under stable serialization keys.
type Checks struct {
	Length    CheckResult `json:"length"`
	IPLiteral CheckResult `json:"ip_literal"`
	Keywords  CheckResult `json:"keywords"`
	TLD       CheckResult `json:"tld"`
	Port      CheckResult `json:"port"`
}

// InOrder returns the checks in declaration order (length, ip_literal,
// keywords, tld, port). Reason assembly depends on this order.
func (c Checks) InOrder() []CheckResult {
	return []CheckResult{c.Length, c.IPLiteral, c.Keywords, c.TLD, c.Port}
}

// Breakdown is the scorer output: the normalized total, the raw pre-normalization
// sum and the individual check results.
type Breakdown struct {
	TotalScore int    `json:"total_score"`
	RawScore   int    `json:"raw_score"`
	Checks     Checks `json:"checks"`
}

// Scorer scores URLs against one rule set.
type Scorer struct {
	rules Rules
}

func New(rules Rules) *Scorer {
	return &Scorer{rules: rules}
}

// Score computes the breakdown for rawURL using the default rules.
func Score(rawURL string) Breakdown {
	return New(DefaultRules()).Score(rawURL)
}

// Score runs the five checks and normalizes the raw sum to 0-100.
func (s *Scorer) Score(rawURL string) Breakdown {
	checks := Checks{
		Length:    checkLength(rawURL),
		IPLiteral: checkIPLiteral(rawURL),
		Keywords:  s.checkKeywords(rawURL),
		TLD:       s.checkTLD(rawURL),
		Port:      checkPort(rawURL),
	}

	raw := 0
	for _, c := range checks.InOrder() {
		raw += c.Score
	}

	total := raw * 100 / maxRawScore
	if total > 100 {
		total = 100
	}

	return Breakdown{TotalScore: total, RawScore: raw, Checks: checks}
}

func checkLength(rawURL string) CheckResult {
	length := utf8.RuneCountInString(rawURL)
	switch {
	case length <= 200:
		return CheckResult{Score: 0, Reason: fmt.Sprintf("URL length is normal (%d characters)", length)}
	case length <= 500:
		return CheckResult{Score: lengthScoreLong, Reason: fmt.Sprintf("URL is suspiciously long (%d characters)", length)}
	default:
		return CheckResult{Score: lengthScoreVeryLong, Reason: fmt.Sprintf("URL is extremely long (%d characters), typical of obfuscated phishing URLs", length)}
	}
}

func checkIPLiteral(rawURL string) CheckResult {
	host := hostOf(rawURL)
	if host == "" {
		return CheckResult{Score: 0, Reason: "Could not determine hostname"}
	}
	if net.ParseIP(host) != nil {
		return CheckResult{Score: ipLiteralScore, Reason: fmt.Sprintf("URL uses IP address (%s) instead of domain name", host)}
	}
	return CheckResult{Score: 0, Reason: "URL uses domain name (normal)"}
}

func (s *Scorer) checkKeywords(rawURL string) CheckResult {
	lower := strings.ToLower(rawURL)
	var found []string
	for _, kw := range s.rules.Keywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}

	switch {
	case len(found) == 0:
		return CheckResult{Score: 0, Reason: "No suspicious keywords detected"}
	case len(found) <= 2:
		return CheckResult{Score: keywordScoreFew, Reason: "Contains suspicious keywords: " + strings.Join(found, ", ")}
	default:
		if len(found) > maxKeywordsInReason {
			found = found[:maxKeywordsInReason]
		}
		return CheckResult{Score: keywordScoreMany, Reason: "Contains multiple suspicious keywords: " + strings.Join(found, ", ")}
	}
}

func (s *Scorer) checkTLD(rawURL string) CheckResult {
	host := hostOf(rawURL)
	if host == "" {
		return CheckResult{Score: 0, Reason: "Could not determine TLD"}
	}
	for _, tld := range s.rules.SuspiciousTLDs {
		if strings.HasSuffix(host, tld) {
			return CheckResult{Score: tldScore, Reason: "URL uses suspicious TLD: " + tld}
		}
	}
	return CheckResult{Score: 0, Reason: "URL uses standard TLD"}
}

func checkPort(rawURL string) CheckResult {
	u, err := url.Parse(rawURL)
	if err != nil {
		return CheckResult{Score: 0, Reason: "Could not parse URL"}
	}
	portStr := u.Port()
	if portStr == "" {
		return CheckResult{Score: 0, Reason: "URL uses default port"}
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return CheckResult{Score: 0, Reason: "Could not parse URL"}
	}
	switch port {
	case 80, 443, 8080:
		return CheckResult{Score: 0, Reason: fmt.Sprintf("URL uses standard port %d", port)}
	default:
		return CheckResult{Score: portScore, Reason: fmt.Sprintf("URL uses uncommon port %d", port)}
	}
}

// hostOf extracts the lowercased hostname (no port, no brackets) or "" when
// the URL does not parse or has no host part.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
