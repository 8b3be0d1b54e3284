package infolib

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultRateLimitInterval                  = 100 * time.Millisecond
	DefaultRateLimitBurst                     = 10
	DefaultCircuitBreakerOpenThreshold        = 5
	DefaultCircuitBreakerHalfOpenTimeout      = time.Minute
	DefaultCircuitBreakerResetFailuresTimeout = 20 * time.Second
)

type httpClient struct {
	userAgent      string
	client         *http.Client
	rateLimiter    *rate.Limiter
	circuitBreaker *circuitBreaker
}

func (h httpClient) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.circuitBreaker.Do(ctx, func(ctx context.Context) (*http.Response, error) {
		if err := h.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("cannot wait for rate limiter (%v): %w", err, ErrCircuitBreakerIgnore)
		}

		resp, err := h.client.Do(req.WithContext(ctx))
		if err != nil {
			flushResponse(resp)

			return nil, err
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= http.StatusInternalServerError:
			flushResponse(resp)

			return nil, fmt.Errorf("netloc has responded with %s", resp.Status)
		case resp.StatusCode >= http.StatusBadRequest:
			flushResponse(resp)

			// netloc is fine, it just knows nothing about this request
			return nil, fmt.Errorf("netloc has responded with %s: %w", resp.Status, errCircuitBreakerPass)
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return resp, nil
}

// HTTPClientOpts is a set of parameters for NewHTTPClient. Zero values
// are replaced with defaults.
type HTTPClientOpts struct {
	UserAgent string

	// Please see https://pkg.go.dev/golang.org/x/time/rate to get a
	// meaning of rate limiter parameters.
	RateLimitInterval time.Duration
	RateLimitBurst    int

	// CircuitBreakerOpenThreshold is a number of failures circuit
	// breaker tolerates. The next failure switches it into OPEN state
	// and blocks access to a target. Only transport errors, timeouts,
	// 429 and 5xx are failures, client errors are valid answers.
	CircuitBreakerOpenThreshold uint32

	// CircuitBreakerHalfOpenTimeout: when circuit breaker is opened, we
	// switch it into HALF_OPEN state after this time period. Within
	// this state we allow 1 attempt. If this attempt fails, then it
	// goes into OPEN state again. If succeed - goes to CLOSED.
	CircuitBreakerHalfOpenTimeout time.Duration

	// CircuitBreakerResetFailuresTimeout is a window for
	// CircuitBreakerOpenThreshold. Failures older than this are
	// forgotten.
	CircuitBreakerResetFailuresTimeout time.Duration
}

func (h HTTPClientOpts) withDefaults() HTTPClientOpts {
	if h.UserAgent == "" {
		h.UserAgent = "ipinfo"
	}

	if h.RateLimitInterval == 0 {
		h.RateLimitInterval = DefaultRateLimitInterval
	}

	if h.RateLimitBurst == 0 {
		h.RateLimitBurst = DefaultRateLimitBurst
	}

	if h.CircuitBreakerOpenThreshold == 0 {
		h.CircuitBreakerOpenThreshold = DefaultCircuitBreakerOpenThreshold
	}

	if h.CircuitBreakerHalfOpenTimeout == 0 {
		h.CircuitBreakerHalfOpenTimeout = DefaultCircuitBreakerHalfOpenTimeout
	}

	if h.CircuitBreakerResetFailuresTimeout == 0 {
		h.CircuitBreakerResetFailuresTimeout = DefaultCircuitBreakerResetFailuresTimeout
	}

	return h
}

// NewHTTPClient prepares a new HTTP client, wraps it with rate limiter,
// circuit breaker, sets a user agent etc.
//
// Each provider should have its own client: circuit breaker tracks
// the health of a single target.
func NewHTTPClient(client *http.Client, opts HTTPClientOpts) HTTPClient {
	opts = opts.withDefaults()

	return httpClient{
		userAgent:   opts.UserAgent,
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Every(opts.RateLimitInterval), opts.RateLimitBurst),
		circuitBreaker: newCircuitBreaker(opts.CircuitBreakerOpenThreshold,
			opts.CircuitBreakerHalfOpenTimeout,
			opts.CircuitBreakerResetFailuresTimeout),
	}
}
