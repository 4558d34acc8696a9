// Package fetch retrieves pages and parses them into goquery documents.
//
// Two fetchers implement the same Fetcher interface:
//   - Client: a plain HTTP fetcher with proxy support, rate limiting,
//     retry with doubling backoff, and a response body size cap
//   - Browser: a headless-browser fetcher for pages that assemble their
//     content with JavaScript
//
// Fetch failures are classified as transient or permanent. Transient
// failures (network errors, 408, 429, 5xx) are retried up to the
// configured budget; permanent failures (any other non-2xx status) fail
// immediately. Callers distinguish the two via IsPermanent.
package fetch
