package safebrowse

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linksafety/verdict"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key")
	c.Endpoint = srv.URL
	return c
}

func TestLookupSendsWireContract(t *testing.T) {
	var got lookupRequest
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("{}"))
	})

	_, err := c.Lookup(context.Background(), "https://example.com")
	require.NoError(t, err)

	assert.Equal(t, "linksafety", got.Client.ClientID)
	assert.Equal(t, "1.0.0", got.Client.ClientVersion)
	assert.ElementsMatch(t, []string{
		"MALWARE", "SOCIAL_ENGINEERING", "UNWANTED_SOFTWARE", "POTENTIALLY_HARMFUL_APPLICATION",
	}, got.ThreatInfo.ThreatTypes)
	assert.Equal(t, []string{"ANY_PLATFORM"}, got.ThreatInfo.PlatformTypes)
	assert.Equal(t, []string{"URL"}, got.ThreatInfo.ThreatEntryTypes)
	require.Len(t, got.ThreatInfo.ThreatEntries, 1)
	assert.Equal(t, "https://example.com", got.ThreatInfo.ThreatEntries[0].URL)
}

func TestLookupNoMatches(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})

	res, err := c.Lookup(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, verdict.Safe, res.Classification)
	assert.Empty(t, res.ThreatTypes)
	assert.Equal(t, "https://example.com", res.URL)
	assert.False(t, res.ObservedAt.IsZero())
}

func TestLookupWithMatches(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"matches":[
			{"threatType":"MALWARE","platformType":"ANY_PLATFORM","threatEntryType":"URL","cacheDuration":"300s"},
			{"threatType":"MALWARE","platformType":"WINDOWS","threatEntryType":"URL","cacheDuration":"300s"}
		]}`))
	})

	res, err := c.Lookup(context.Background(), "https://bad.example")
	require.NoError(t, err)
	assert.Equal(t, verdict.Dangerous, res.Classification)
	assert.Equal(t, []string{"MALWARE"}, res.ThreatTypes)
	assert.NotEmpty(t, res.Raw)
}

func TestLookupMissingKeyIsConfigError(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ }))
	defer srv.Close()

	c := NewClient("")
	c.Endpoint = srv.URL

	_, err := c.Lookup(context.Background(), "https://example.com")
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Zero(t, hits, "no network attempt without a credential")
}

func TestLookupAuthErrors(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusForbidden} {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "key rejected", status)
		})
		_, err := c.Lookup(context.Background(), "https://example.com")
		var authErr *AuthError
		require.ErrorAs(t, err, &authErr, "status %d", status)
		assert.Equal(t, status, authErr.StatusCode)
		assert.Contains(t, authErr.Body, "key rejected")
	}
}

func TestLookupQuotaErrorCarriesRetryAfter(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Lookup(context.Background(), "https://example.com")
	var quotaErr *QuotaError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 30*time.Second, quotaErr.RetryAfter)
}

func TestLookupQuotaErrorParsesHTTPDateRetryAfter(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", time.Now().Add(90*time.Second).UTC().Format(http.TimeFormat))
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Lookup(context.Background(), "https://example.com")
	var quotaErr *QuotaError
	require.ErrorAs(t, err, &quotaErr)
	assert.Greater(t, quotaErr.RetryAfter, 80*time.Second)
	assert.LessOrEqual(t, quotaErr.RetryAfter, 90*time.Second)
}

func TestLookupQuotaErrorPastDateRetryAfterIsZero(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", time.Now().Add(-time.Minute).UTC().Format(http.TimeFormat))
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Lookup(context.Background(), "https://example.com")
	var quotaErr *QuotaError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, time.Duration(0), quotaErr.RetryAfter)
}

func TestLookupUnexpectedStatusIsProtocolError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Lookup(context.Background(), "https://example.com")
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, http.StatusBadGateway, protoErr.StatusCode)
}

func TestLookupUndecodableBodyIsProtocolError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	})

	_, err := c.Lookup(context.Background(), "https://example.com")
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
}

func TestLookupConnectionFailureIsTransportError(t *testing.T) {
	c := NewClient("test-key")
	c.Endpoint = "http://127.0.0.1:1"

	_, err := c.Lookup(context.Background(), "https://example.com")
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}
