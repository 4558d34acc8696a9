package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

// Fetch errors.
var (
	// ErrRetriesExhausted wraps the last transient error after the
	// retry budget ran out.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrUnsupportedProxyScheme is returned by NewClient for a proxy
	// URI whose scheme is not socks5, http or https.
	ErrUnsupportedProxyScheme = errors.New("unsupported proxy scheme")
)

// StatusError is returned when the server answered with a non-2xx
// status. It carries the status code so callers and the retry loop can
// classify the failure.
type StatusError struct {
	// Code is the HTTP status code.
	Code int

	// URL is the fetched URL.
	URL string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Permanent reports whether the status indicates a failure that a retry
// cannot fix. Request timeout (408), rate limiting (429) and server
// errors (5xx) are transient; everything else non-2xx is permanent.
func (e *StatusError) Permanent() bool {
	switch {
	case e.Code == http.StatusRequestTimeout:
		return false
	case e.Code == http.StatusTooManyRequests:
		return false
	case e.Code >= 500:
		return false
	default:
		return true
	}
}

// IsPermanent reports whether err is a permanent fetch failure that
// should not be retried. Errors without a Permanent method are treated
// as transient, matching the behavior of network-level errors.
func IsPermanent(err error) bool {
	var p interface{ Permanent() bool }
	if errors.As(err, &p) {
		return p.Permanent()
	}
	return false
}
