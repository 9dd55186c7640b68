// Package safebrowse is the gateway to the Google Safe Browsing v4 Lookup API.
// It issues one threatMatches:find request per URL and translates the wire
// response into a normalized result or a typed failure.
package safebrowse

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	neturl "net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultEndpoint is the production Lookup API endpoint.
const DefaultEndpoint = "https://safebrowsing.googleapis.com/v4/threatMatches:find"

const (
	clientID       = "linksafety"
	clientVersion  = "1.0.0"
	requestTimeout = 10 * time.Second
)

var (
	requestedThreatTypes = []string{
		"MALWARE",
		"SOCIAL_ENGINEERING",
		"UNWANTED_SOFTWARE",
		"POTENTIALLY_HARMFUL_APPLICATION",
	}
	requestedPlatformTypes    = []string{"ANY_PLATFORM"}
	requestedThreatEntryTypes = []string{"URL"}
)

// Client performs Safe Browsing lookups. Endpoint and HTTPClient are exported
// so tests can point the client at a stub server.
type Client struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		Endpoint:   DefaultEndpoint,
		HTTPClient: &http.Client{Timeout: requestTimeout},
	}
}

type clientInfo struct {
	ClientID      string `json:"clientId"`
	ClientVersion string `json:"clientVersion"`
}

type threatEntry struct {
	URL string `json:"url"`
}

type threatInfo struct {
	ThreatTypes      []string      `json:"threatTypes"`
	PlatformTypes    []string      `json:"platformTypes"`
	ThreatEntryTypes []string      `json:"threatEntryTypes"`
	ThreatEntries    []threatEntry `json:"threatEntries"`
}

type lookupRequest struct {
	Client     clientInfo `json:"client"`
	ThreatInfo threatInfo `json:"threatInfo"`
}

// Match is one threat list entry returned for the URL.
type Match struct {
	ThreatType      string `json:"threatType"`
	PlatformType    string `json:"platformType"`
	ThreatEntryType string `json:"threatEntryType"`
	CacheDuration   string `json:"cacheDuration"`
}

type lookupResponse struct {
	Matches []Match `json:"matches"`
}

// Lookup checks one URL against the Safe Browsing threat lists. Failures are
// one of ConfigError, AuthError, QuotaError, TransportError or ProtocolError.
func (c *Client) Lookup(ctx context.Context, targetURL string) (*Result, error) {
	if c.APIKey == "" {
		return nil, &ConfigError{Reason: "Safe Browsing API key is not configured"}
	}

	body, err := json.Marshal(lookupRequest{
		Client: clientInfo{ClientID: clientID, ClientVersion: clientVersion},
		ThreatInfo: threatInfo{
			ThreatTypes:      requestedThreatTypes,
			PlatformTypes:    requestedPlatformTypes,
			ThreatEntryTypes: requestedThreatEntryTypes,
			ThreatEntries:    []threatEntry{{URL: targetURL}},
		},
	})
	if err != nil {
		return nil, &ProtocolError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.Endpoint+"?key="+neturl.QueryEscape(c.APIKey), bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusForbidden:
		return nil, &AuthError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	case http.StatusTooManyRequests:
		return nil, &QuotaError{RetryAfter: retryAfter(resp.Header)}
	default:
		return nil, &ProtocolError{StatusCode: resp.StatusCode}
	}

	var parsed lookupResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return nil, &ProtocolError{StatusCode: resp.StatusCode, Err: err}
		}
	}

	return Classify(targetURL, parsed.Matches, raw), nil
}

// retryAfter reads the Retry-After header, which carries either delta-seconds
// or an HTTP-date.
func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
