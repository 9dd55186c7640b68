package riskscore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func urlOfLength(n int) string {
	const base = "https://example.com/"
	if n <= len(base) {
		return base[:n]
	}
	return base + strings.Repeat("a", n-len(base))
}

func TestLengthBoundaries(t *testing.T) {
	tests := []struct {
		length int
		want   int
	}{
		{length: 20, want: 0},
		{length: 200, want: 0},
		{length: 201, want: 20},
		{length: 500, want: 20},
		{length: 501, want: 40},
		{length: 1200, want: 40},
	}
	for _, tt := range tests {
		u := urlOfLength(tt.length)
		require.Len(t, u, tt.length)
		got := Score(u)
		assert.Equal(t, tt.want, got.Checks.Length.Score, "length %d", tt.length)
	}
}

func TestIPLiteralHost(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want int
	}{
		{name: "domain", url: "https://example.com/", want: 0},
		{name: "ipv4", url: "http://192.168.1.1/", want: 30},
		{name: "ipv4 with port", url: "http://10.0.0.1:8080/path", want: 30},
		{name: "ipv6", url: "http://[2001:db8::1]/", want: 30},
		{name: "no host", url: "not a url at all", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.url)
			assert.Equal(t, tt.want, got.Checks.IPLiteral.Score)
		})
	}
}

func TestKeywordDensity(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want int
	}{
		{name: "none", url: "https://example.com/", want: 0},
		{name: "one", url: "https://example.com/login", want: 15},
		{name: "two", url: "https://example.com/secure-login", want: 15},
		{name: "three", url: "https://example.com/secure-login-verify", want: 30},
		{name: "case insensitive", url: "https://example.com/LOGIN", want: 15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.url)
			assert.Equal(t, tt.want, got.Checks.Keywords.Score)
		})
	}
}

func TestKeywordReasonListsAtMostFive(t *testing.T) {
	got := Score("https://example.com/secure-verify-update-account-login-signin-bank")
	require.Equal(t, 30, got.Checks.Keywords.Score)
	listed := strings.SplitN(got.Checks.Keywords.Reason, ": ", 2)[1]
	assert.LessOrEqual(t, len(strings.Split(listed, ", ")), 5)
}

func TestSuspiciousTLD(t *testing.T) {
	assert.Equal(t, 25, Score("https://example.tk/").Checks.TLD.Score)
	assert.Equal(t, 25, Score("https://example.xyz/").Checks.TLD.Score)
	assert.Equal(t, 0, Score("https://example.com/").Checks.TLD.Score)
}

func TestSuspiciousTLDIgnoresHostCase(t *testing.T) {
	for _, u := range []string{"https://EXAMPLE.TK/", "https://Example.Tk/", "https://example.XYZ/"} {
		assert.Equal(t, 25, Score(u).Checks.TLD.Score, "url %q", u)
	}
}

func TestLengthCountsCharactersNotBytes(t *testing.T) {
	// 20-char base plus 180 two-byte runes: 200 characters, 380 bytes.
	u := "https://example.com/" + strings.Repeat("é", 180)
	require.Equal(t, 380, len(u))
	got := Score(u)
	assert.Equal(t, 0, got.Checks.Length.Score)
	assert.Contains(t, got.Checks.Length.Reason, "(200 characters)")
}

func TestPortCheck(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want int
	}{
		{name: "no port", url: "https://example.com/", want: 0},
		{name: "port 80", url: "http://example.com:80/", want: 0},
		{name: "port 443", url: "https://example.com:443/", want: 0},
		{name: "port 8080", url: "http://example.com:8080/", want: 0},
		{name: "port 8443", url: "https://example.com:8443/", want: 20},
		{name: "port 9999", url: "http://example.com:9999/", want: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.url)
			assert.Equal(t, tt.want, got.Checks.Port.Score)
		})
	}
}

func TestNormalization(t *testing.T) {
	// 30 (ip) + 15 (keywords) = 45 raw; 45*100/145 = 31.
	got := Score("http://192.168.1.1/secure-login")
	assert.Equal(t, 45, got.RawScore)
	assert.Equal(t, 31, got.TotalScore)
}

func TestTotalScoreBounds(t *testing.T) {
	urls := []string{
		"",
		"https://example.com/",
		"http://192.168.1.1:9999/secure-verify-update-account-login",
		urlOfLength(600) + "secure-verify-update-account-login",
		"not a url",
	}
	for _, u := range urls {
		got := Score(u)
		assert.GreaterOrEqual(t, got.TotalScore, 0, "url %q", u)
		assert.LessOrEqual(t, got.TotalScore, 100, "url %q", u)
	}
}

func TestScoreIsPure(t *testing.T) {
	const u = "http://192.168.1.1:9999/secure-login"
	first := Score(u)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Score(u))
	}
}

func TestTotalMonotonicInChecks(t *testing.T) {
	// Each URL adds one more positively scoring check.
	urls := []string{
		"https://example.com/",
		"https://example.com/login",
		"http://192.168.1.1/login",
		"http://192.168.1.1:9999/login",
	}
	prev := -1
	for _, u := range urls {
		total := Score(u).TotalScore
		assert.Greater(t, total, prev, "url %q", u)
		prev = total
	}
}

func TestMalformedURLDegradesToZero(t *testing.T) {
	got := Score("http://exa\x01mple.com/%zz")
	assert.Equal(t, 0, got.Checks.IPLiteral.Score)
	assert.Equal(t, 0, got.Checks.TLD.Score)
	assert.Equal(t, 0, got.Checks.Port.Score)
}

func TestChecksInOrder(t *testing.T) {
	got := Score("http://192.168.1.1:9999/login")
	ordered := got.Checks.InOrder()
	require.Len(t, ordered, 5)
	assert.Equal(t, got.Checks.Length, ordered[0])
	assert.Equal(t, got.Checks.IPLiteral, ordered[1])
	assert.Equal(t, got.Checks.Keywords, ordered[2])
	assert.Equal(t, got.Checks.TLD, ordered[3])
	assert.Equal(t, got.Checks.Port, ordered[4])
}
