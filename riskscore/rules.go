package riskscore

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules holds the phishing-lure keyword list and the suspicious-TLD set the
// scorer matches against. Rules only change what matches; the per-check score
// ceilings are fixed and not configurable.
type Rules struct {
	Keywords       []string `yaml:"keywords"`
	SuspiciousTLDs []string `yaml:"suspicious_tlds"`
}

// DefaultRules returns the built-in keyword and TLD lists.
func DefaultRules() Rules {
	return Rules{
		Keywords: []string{
			"secure", "verify", "update", "account", "login", "signin", "bank",
			"paypal", "confirm", "password", "billing", "credit", "card",
			"security", "suspended", "authenticate", "wallet", "tax", "refund",
		},
		SuspiciousTLDs: []string{
			".tk", ".ml", ".ga", ".cf", ".gq", ".xyz", ".top", ".work",
			".click", ".link", ".country", ".stream", ".download", ".win",
			".bid", ".racing",
		},
	}
}

// LoadRules reads a YAML rules file. Lists the file leaves empty keep their
// defaults.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("riskscore: read rules: %w", err)
	}
	var override Rules
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Rules{}, fmt.Errorf("riskscore: parse rules: %w", err)
	}
	rules := DefaultRules()
	if len(override.Keywords) > 0 {
		rules.Keywords = override.Keywords
	}
	if len(override.SuspiciousTLDs) > 0 {
		rules.SuspiciousTLDs = override.SuspiciousTLDs
	}
	return rules, nil
}
