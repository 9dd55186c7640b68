// Package registration reports WHOIS registration details for an analyzed
// host. The data is informational, shown alongside the verdict; it never feeds
// classification, which depends only on the URL string and the remote lookup.
package registration

import (
	"fmt"
	"strings"
	"time"

	whois "github.com/likexian/whois"
	parser "github.com/likexian/whois-parser"
)

// Info summarizes a domain's registration record.
type Info struct {
	Domain    string `json:"domain"`
	AgeDays   int    `json:"age_days"`
	CreatedOn string `json:"created_on,omitempty"`
	UpdatedOn string `json:"updated_on,omitempty"`
	ExpiresOn string `json:"expires_on,omitempty"`
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
}

const displayLayout = "02/01/2006"

// Lookup fetches and parses the WHOIS record for domain. Subdomains often have
// no record of their own, so parse failures retry on the parent domain.
func Lookup(domain string) (Info, error) {
	raw, err := whois.Whois(domain)
	if err != nil {
		return Info{}, fmt.Errorf("registration: whois %s: %w", domain, err)
	}

	p, err := parser.Parse(raw)
	if err != nil || p.Domain == nil {
		parts := strings.Split(domain, ".")
		if len(parts) > 2 {
			return Lookup(strings.Join(parts[1:], "."))
		}
		if err != nil {
			return Info{}, fmt.Errorf("registration: parse whois for %s: %w", domain, err)
		}
		return Info{}, fmt.Errorf("registration: no domain record for %s", domain)
	}

	info := Info{Domain: domain}
	if created, ok := parseDate(p.Domain.CreatedDate); ok {
		info.CreatedOn = created.Format(displayLayout)
		info.AgeDays = int(time.Since(created).Hours() / 24)
	}
	if updated, ok := parseDate(p.Domain.UpdatedDate); ok {
		info.UpdatedOn = updated.Format(displayLayout)
	}
	if expires, ok := parseDate(p.Domain.ExpirationDate); ok {
		info.ExpiresOn = expires.Format(displayLayout)
	}
	return info, nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
