package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRetryBudget is returned when the retry budget is negative.
	// Use 0 to disable retries.
	ErrInvalidRetryBudget = errors.New("invalid retry budget: must be non-negative")

	// ErrInvalidRetryBackoff is returned when the retry backoff is negative.
	// Use 0 to retry immediately.
	ErrInvalidRetryBackoff = errors.New("invalid retry backoff: must be non-negative")

	// ErrInvalidRate is returned when the request rate is negative.
	// Use 0 for an unlimited rate.
	ErrInvalidRate = errors.New("invalid request rate: must be non-negative")

	// ErrInvalidConcurrency is returned when the concurrency is not
	// positive. A concurrency of zero would mean no resolution at all.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidMaxPages is returned when the page limit is negative.
	// Use 0 for no page limit.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidLimit is returned when the record limit is negative.
	// Use 0 for no record limit.
	ErrInvalidLimit = errors.New("invalid limit: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)
