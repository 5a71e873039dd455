package fetch

import "fmt"

// Kind classifies a fetch failure.
type Kind int

const (
	// KindNetwork covers timeouts and connection failures.
	KindNetwork Kind = iota
	// KindRateLimited is an HTTP 429 response.
	KindRateLimited
	// KindClient is any other 4xx response. Not retryable.
	KindClient
	// KindServer is a 5xx response.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindRateLimited:
		return "rate limited"
	case KindClient:
		return "client error"
	case KindServer:
		return "server error"
	}
	return "unknown"
}

// FetchError describes a failed request after all retries were exhausted
// (or immediately, for non-retryable kinds).
type FetchError struct {
	URL        string
	StatusCode int
	Kind       Kind
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetching %s: %s (HTTP %d)", e.URL, e.Kind, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt could succeed.
func (e *FetchError) Retryable() bool { return e.Kind != KindClient }
