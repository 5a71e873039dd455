// Package fetch provides the throttled HTTP client used to download the
// calendar and event detail pages.
//
// The client is polite toward the site: it sleeps before every request,
// escalates its delay when the server answers 429 and relaxes it again on
// success. Transient failures (timeouts, 429, 5xx) are retried with
// exponential backoff honoring the server's Retry-After hint; other 4xx
// responses fail immediately.
package fetch
