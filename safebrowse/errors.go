package safebrowse

import (
	"fmt"
	"time"
)

// Lookup failures form a closed taxonomy callers inspect with errors.As. Only
// QuotaError and TransportError are sensibly retryable; the client itself never
// retries.

// ConfigError means no credential is configured. It is raised before any
// network attempt and must not be retried.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "safebrowse: " + e.Reason
}

// AuthError means the remote rejected the credential (bad key, restricted
// scope). Not retryable.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("safebrowse: credential rejected (status %d): %s", e.StatusCode, e.Body)
}

// QuotaError means the remote signaled rate limiting. RetryAfter carries the
// server-supplied delay, zero when the server sent none.
type QuotaError struct {
	RetryAfter time.Duration
}

func (e *QuotaError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("safebrowse: rate limit exceeded, retry after %s", e.RetryAfter)
	}
	return "safebrowse: rate limit exceeded"
}

// TransportError means the request never completed (dial failure, timeout).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "safebrowse: transport failure: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError means the response did not match the expected schema: an
// unexpected status or an undecodable body. Treated as a bug, not transient.
type ProtocolError struct {
	StatusCode int
	Err        error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("safebrowse: unexpected response (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("safebrowse: unexpected response status %d", e.StatusCode)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
