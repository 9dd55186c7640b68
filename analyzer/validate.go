package analyzer

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"linksafety/riskscore"
)

// ValidationResult carries advisory findings about a URL for the front end.
// It never affects the verdict.
type ValidationResult struct {
	Valid        bool     `json:"valid"`
	FormattedURL string   `json:"formatted_url"`
	Errors       []string `json:"errors,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
	Suggestions  []string `json:"suggestions,omitempty"`
}

// Frequently typo-squatted second-level domains.
var commonDomainTypos = map[string]string{
	"gogle":    "google",
	"googel":   "google",
	"gooogle":  "google",
	"yahooo":   "yahoo",
	"facbook":  "facebook",
	"facebok":  "facebook",
	"amazom":   "amazon",
	"amzon":    "amazon",
	"paypa1":   "paypal",
	"paypai":   "paypal",
	"twiter":   "twitter",
	"twtter":   "twitter",
	"linkedim": "linkedin",
	"linkdin":  "linkedin",
}

// FormatURL trims the input and prepends https:// when no scheme is present.
// An empty or whitespace-only input formats to "".
func FormatURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

// ValidateURL checks the URL shape and flags patterns a user should look at
// before trusting the verdict of their own eyes.
func ValidateURL(raw string) ValidationResult {
	res := ValidationResult{}

	if strings.TrimSpace(raw) == "" {
		res.Errors = append(res.Errors, "URL cannot be empty")
		res.Suggestions = append(res.Suggestions, "Please enter a valid URL")
		return res
	}

	res.FormattedURL = FormatURL(raw)

	u, err := url.Parse(res.FormattedURL)
	if err != nil {
		res.Errors = append(res.Errors, "Invalid URL format: "+err.Error())
		res.Suggestions = append(res.Suggestions, "Check the URL format and try again")
		return res
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		res.Errors = append(res.Errors, "Invalid protocol: "+u.Scheme)
		res.Suggestions = append(res.Suggestions, "Use 'http://' or 'https://' protocol")
	}

	host := u.Hostname()
	if host == "" {
		res.Errors = append(res.Errors, "Missing domain name")
		res.Suggestions = append(res.Suggestions, "Enter a complete URL like 'https://example.com'")
	} else {
		if net.ParseIP(host) != nil {
			res.Warnings = append(res.Warnings, "URL uses IP address instead of domain name")
		}
		for _, tld := range riskscore.DefaultRules().SuspiciousTLDs {
			if strings.HasSuffix(host, tld) {
				res.Warnings = append(res.Warnings, "Suspicious top-level domain: "+tld)
				break
			}
		}
		if p := u.Port(); p != "" && p != "80" && p != "443" && p != "8080" && p != "8443" {
			res.Warnings = append(res.Warnings, "Unusual port number: "+p)
		}
		labels := strings.Split(host, ".")
		if len(labels) >= 2 {
			sld := strings.ToLower(labels[len(labels)-2])
			if correct, ok := commonDomainTypos[sld]; ok {
				res.Warnings = append(res.Warnings, "Possible typo in domain name: "+sld)
				res.Suggestions = append(res.Suggestions,
					fmt.Sprintf("Did you mean '%s.%s'?", correct, labels[len(labels)-1]))
			}
		}
	}

	res.Valid = len(res.Errors) == 0
	return res
}
