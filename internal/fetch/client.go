package fetch

import (
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/honzajavorek/karolakvido/internal/config"
	"github.com/honzajavorek/karolakvido/internal/logger"
)

const (
	// maxAttempts bounds the total number of requests per FetchText call,
	// counting the first attempt.
	maxAttempts = 5

	// retryWaitMin and retryWaitMax bound the exponential backoff between
	// attempts. A Retry-After hint may extend a single wait up to
	// maxRetryAfter.
	retryWaitMin  = 1 * time.Second
	retryWaitMax  = 8 * time.Second
	maxRetryAfter = 90 * time.Second

	acceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

	// relaxFactor shrinks the adaptive delay after each non-rate-limited
	// success, back down toward the configured base.
	relaxFactor = 0.9
)

// Client fetches pages from karolakvido.cz with an adaptive politeness
// delay. The delay starts at the configured base, doubles on every 429
// (capped at the maximum) and relaxes toward the base on success. The
// delay persists across calls for the lifetime of the client.
type Client struct {
	httpClient    *http.Client
	userAgent     string
	baseDelay     time.Duration
	maxDelay      time.Duration
	backoffFactor float64

	currentDelay time.Duration

	// sleep and timer are injectable so tests run without real waiting.
	sleep func(time.Duration)
	timer backoff.Timer
}

// NewClient creates a fetch client from the HTTP configuration.
func NewClient(cfg config.HTTPConfig) *Client {
	baseDelay := cfg.RequestDelay
	if baseDelay < 0 {
		baseDelay = 0
	}
	maxDelay := cfg.MaxRequestDelay
	if maxDelay < baseDelay {
		maxDelay = baseDelay
	}
	factor := cfg.BackoffFactor
	if factor < 1.0 {
		factor = 1.0
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.ReadTimeout,
			Transport: &http.Transport{
				DialContext:         (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext,
				TLSHandshakeTimeout: cfg.ConnectTimeout,
			},
		},
		userAgent:     cfg.UserAgent,
		baseDelay:     baseDelay,
		maxDelay:      maxDelay,
		backoffFactor: factor,
		currentDelay:  baseDelay,
		sleep:         time.Sleep,
	}
}

// FetchText GETs the URL and returns the response body. Timeouts,
// connection failures, 429s and 5xx responses are retried up to
// maxAttempts times with exponential backoff; a 429's Retry-After header
// (seconds or HTTP-date) can lengthen the next wait up to maxRetryAfter.
// Other 4xx responses fail immediately. The returned error is always a
// *FetchError once retries are exhausted.
func (c *Client) FetchText(url string) (string, error) {
	hinted := &retryAfterBackOff{BackOff: newExponential()}

	var body string
	operation := func() error {
		c.throttle(url)
		text, err := c.do(url, hinted)
		if err != nil {
			var fetchErr *FetchError
			if errors.As(err, &fetchErr) && !fetchErr.Retryable() {
				return backoff.Permanent(err)
			}
			return err
		}
		body = text
		return nil
	}

	notify := func(err error, wait time.Duration) {
		logger.IncrCounter("fetch.retries")
		logger.Debug("retrying request", logger.Fields{
			"url":  url,
			"wait": wait.String(),
		})
	}

	start := time.Now()
	err := backoff.RetryNotifyWithTimer(operation, backoff.WithMaxRetries(hinted, maxAttempts-1), notify, c.timer)
	logger.RecordTiming("fetch.duration", time.Since(start))
	if err != nil {
		return "", err
	}
	return body, nil
}

// do performs a single request attempt.
func (c *Client) do(url string, hinted *retryAfterBackOff) (string, error) {
	logger.IncrCounter("fetch.requests")

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Kind: KindClient, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", acceptHeader)

	logger.Debug("HTTP GET", logger.Fields{"url": url})
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		logger.IncrCounter("fetch.rate_limited")
		c.increaseDelay()
		hinted.noteRetryAfter(resp.Header.Get("Retry-After"))
		io.Copy(io.Discard, resp.Body)
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode, Kind: KindRateLimited}
	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode, Kind: KindServer}
	case resp.StatusCode >= 400:
		io.Copy(io.Discard, resp.Body)
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode, Kind: KindClient}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: url, Kind: KindNetwork, Err: err}
	}

	c.relaxDelay()
	logger.Debug("HTTP response", logger.Fields{"url": url, "status": resp.StatusCode})
	return string(data), nil
}

// throttle sleeps for the current adaptive delay.
func (c *Client) throttle(url string) {
	if c.currentDelay <= 0 {
		return
	}
	logger.Debug("waiting before request", logger.Fields{
		"url":   url,
		"delay": c.currentDelay.String(),
	})
	c.sleep(c.currentDelay)
}

// increaseDelay escalates the adaptive delay after a 429.
func (c *Client) increaseDelay() {
	if c.currentDelay <= 0 {
		c.currentDelay = c.baseDelay
		if c.currentDelay <= 0 {
			c.currentDelay = time.Second
		}
	} else {
		c.currentDelay = time.Duration(float64(c.currentDelay) * c.backoffFactor)
	}
	if c.currentDelay > c.maxDelay {
		c.currentDelay = c.maxDelay
	}
}

// relaxDelay eases the adaptive delay back toward the base after a
// non-rate-limited success.
func (c *Client) relaxDelay() {
	if c.currentDelay <= c.baseDelay {
		c.currentDelay = c.baseDelay
		return
	}
	relaxed := time.Duration(float64(c.currentDelay) * relaxFactor)
	if relaxed < c.baseDelay {
		relaxed = c.baseDelay
	}
	c.currentDelay = relaxed
}

func newExponential() *backoff.ExponentialBackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = retryWaitMin
	exp.MaxInterval = retryWaitMax
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0
	return exp
}

// retryAfterBackOff layers the server's Retry-After hint on top of the
// exponential schedule: the next wait is max(exponential, min(hint, 90s)).
// The hint applies to a single wait and is consumed by NextBackOff.
type retryAfterBackOff struct {
	backoff.BackOff
	hint    time.Duration
	hasHint bool
}

func (b *retryAfterBackOff) noteRetryAfter(header string) {
	if d, ok := parseRetryAfter(header); ok {
		b.hint = d
		b.hasHint = true
	}
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	if b.hasHint {
		hint := b.hint
		if hint > maxRetryAfter {
			hint = maxRetryAfter
		}
		if hint > next {
			next = hint
		}
		b.hasHint = false
	}
	return next
}

// parseRetryAfter interprets a Retry-After header value, either a number
// of seconds or an HTTP-date.
func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}

	if at, err := http.ParseTime(value); err == nil {
		d := time.Until(at)
		if d < 0 {
			d = 0
		}
		return d, true
	}

	return 0, false
}
