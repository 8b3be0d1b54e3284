package infolib

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

type circuitBreakerCallback func(context.Context) (*http.Response, error)

type circuitBreakerState uint8

const (
	circuitBreakerStateClosed circuitBreakerState = iota
	circuitBreakerStateHalfOpened
	circuitBreakerStateOpened
)

// circuitBreakerOutcome tells what a single call says about the health
// of a remote side.
type circuitBreakerOutcome uint8

const (
	// netloc has answered. Client errors like 404 for an unknown
	// address are answers too.
	circuitBreakerOutcomeHealthy circuitBreakerOutcome = iota

	// transport errors, 5xx, 429 and provider timeouts.
	circuitBreakerOutcomeUnhealthy

	// the call tells nothing: rate limiter or caller has given up.
	circuitBreakerOutcomeSkip
)

func classifyOutcome(ctx context.Context, err error) circuitBreakerOutcome {
	switch {
	case err == nil, errors.Is(err, errCircuitBreakerPass):
		return circuitBreakerOutcomeHealthy
	case errors.Is(err, ErrCircuitBreakerIgnore):
		return circuitBreakerOutcomeSkip
	case errors.Is(ctx.Err(), context.Canceled):
		return circuitBreakerOutcomeSkip
	}

	return circuitBreakerOutcomeUnhealthy
}

// circuitBreaker guards a single provider. It opens after more than
// openThreshold unhealthy outcomes within resetFailuresTimeout, rejects
// everything for halfOpenTimeout and then lets a single trial call
// through. A result of the trial decides whether to close or to open
// again.
//
// There are no background timers: state transitions which depend on
// time are evaluated when somebody asks for admission.
type circuitBreaker struct {
	mutex sync.Mutex
	now   func() time.Time

	state           circuitBreakerState
	failures        uint32
	failuresSince   time.Time
	openedAt        time.Time
	trialInProgress bool

	openThreshold        uint32
	halfOpenTimeout      time.Duration
	resetFailuresTimeout time.Duration
}

func (c *circuitBreaker) Do(ctx context.Context, callback circuitBreakerCallback) (*http.Response, error) {
	admittedIn, ok := c.admit()
	if !ok {
		return nil, ErrCircuitBreakerOpened
	}

	resp, err := callback(ctx)

	c.record(admittedIn, classifyOutcome(ctx, err))

	return resp, err
}

func (c *circuitBreaker) admit() (circuitBreakerState, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.state == circuitBreakerStateOpened && c.now().Sub(c.openedAt) >= c.halfOpenTimeout {
		c.state = circuitBreakerStateHalfOpened
		c.trialInProgress = false
	}

	switch c.state {
	case circuitBreakerStateClosed:
		return c.state, true
	case circuitBreakerStateHalfOpened:
		if c.trialInProgress {
			return c.state, false
		}

		c.trialInProgress = true

		return c.state, true
	}

	return c.state, false
}

func (c *circuitBreaker) record(admittedIn circuitBreakerState, outcome circuitBreakerOutcome) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if admittedIn == circuitBreakerStateHalfOpened {
		if c.state != circuitBreakerStateHalfOpened {
			return
		}

		switch outcome {
		case circuitBreakerOutcomeHealthy:
			c.close()
		case circuitBreakerOutcomeUnhealthy:
			c.open()
		default:
			c.trialInProgress = false
		}

		return
	}

	if c.state != circuitBreakerStateClosed {
		return
	}

	switch outcome {
	case circuitBreakerOutcomeHealthy:
		c.failures = 0
	case circuitBreakerOutcomeUnhealthy:
		now := c.now()

		if c.failures == 0 || now.Sub(c.failuresSince) >= c.resetFailuresTimeout {
			c.failures = 0
			c.failuresSince = now
		}

		c.failures++

		if c.failures > c.openThreshold {
			c.open()
		}
	}
}

func (c *circuitBreaker) open() {
	c.state = circuitBreakerStateOpened
	c.openedAt = c.now()
	c.failures = 0
	c.trialInProgress = false
}

func (c *circuitBreaker) close() {
	c.state = circuitBreakerStateClosed
	c.failures = 0
	c.trialInProgress = false
}

func (c *circuitBreaker) currentState() circuitBreakerState {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.state
}

func newCircuitBreaker(openThreshold uint32,
	halfOpenTimeout, resetFailuresTimeout time.Duration) *circuitBreaker {
	return &circuitBreaker{
		now:                  time.Now,
		openThreshold:        openThreshold,
		halfOpenTimeout:      halfOpenTimeout,
		resetFailuresTimeout: resetFailuresTimeout,
	}
}
