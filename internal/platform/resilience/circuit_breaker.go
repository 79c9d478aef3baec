package resilience

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// CircuitBreakerConfig with zero values falls back to 5 failures, a 15s open
// window and a single half-open probe.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenProbes   int
	// OnStateChange runs outside the breaker lock after every transition.
	OnStateChange func(from, to CircuitState)
}

func (c CircuitBreakerConfig) withDefaults() CircuitBreakerConfig {
	if c.FailureThreshold < 1 {
		c.FailureThreshold = 5
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 15 * time.Second
	}
	if c.HalfOpenProbes < 1 {
		c.HalfOpenProbes = 1
	}
	return c
}

// CircuitBreaker stops calls to a dependency after consecutive failures and
// lets a bounded number of probes through once the open timeout has passed.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu        sync.Mutex
	state     CircuitState
	failures  int
	openUntil time.Time
	inFlight  int
	succeeded int
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	return &CircuitBreaker{cfg: cfg.withDefaults(), state: CircuitStateClosed, now: time.Now}
}

// Execute runs fn unless the breaker is open and records its outcome. A
// nil or disabled breaker always runs fn.
func (b *CircuitBreaker) Execute(fn func() error) error {
	if b == nil || !b.cfg.Enabled {
		return fn()
	}
	if err := b.Allow(); err != nil {
		return err
	}
	err := fn()
	if err != nil {
		b.RecordFailure()
		return err
	}
	b.RecordSuccess()
	return nil
}

// Allow reserves a call slot, moving an expired open breaker to half-open.
func (b *CircuitBreaker) Allow() error {
	var err error
	b.update(func() {
		if b.state == CircuitStateOpen {
			if b.now().Before(b.openUntil) {
				err = ErrCircuitOpen
				return
			}
			b.moveTo(CircuitStateHalfOpen)
		}
		if b.state != CircuitStateHalfOpen {
			return
		}
		if b.inFlight >= b.cfg.HalfOpenProbes {
			err = errors.Wrapf(ErrCircuitOpen, "%d probes in flight", b.inFlight)
			return
		}
		b.inFlight++
	})
	return err
}

func (b *CircuitBreaker) RecordSuccess() {
	b.update(func() {
		if b.state == CircuitStateClosed {
			b.failures = 0
			return
		}
		if b.state != CircuitStateHalfOpen {
			return
		}
		if b.inFlight > 0 {
			b.inFlight--
		}
		b.succeeded++
		if b.succeeded >= b.cfg.HalfOpenProbes && b.inFlight == 0 {
			b.moveTo(CircuitStateClosed)
		}
	})
}

func (b *CircuitBreaker) RecordFailure() {
	b.update(func() {
		switch b.state {
		case CircuitStateClosed:
			b.failures++
			if b.failures >= b.cfg.FailureThreshold {
				b.moveTo(CircuitStateOpen)
			}
		case CircuitStateHalfOpen:
			b.moveTo(CircuitStateOpen)
		case CircuitStateOpen:
			b.openUntil = b.now().Add(b.cfg.OpenTimeout)
		}
	})
}

// State reports half-open for an open breaker whose window has expired, even
// before the next Allow moves it there.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && !b.now().Before(b.openUntil) {
		return CircuitStateHalfOpen
	}
	return b.state
}

// update runs fn under the lock and fires OnStateChange once it is released.
func (b *CircuitBreaker) update(fn func()) {
	b.mu.Lock()
	from := b.state
	fn()
	to := b.state
	b.mu.Unlock()

	if from != to && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(from, to)
	}
}

// moveTo must be called with the lock held.
func (b *CircuitBreaker) moveTo(state CircuitState) {
	b.state = state
	b.inFlight, b.succeeded = 0, 0
	switch state {
	case CircuitStateOpen:
		b.openUntil = b.now().Add(b.cfg.OpenTimeout)
	case CircuitStateClosed:
		b.failures = 0
		b.openUntil = time.Time{}
	}
}
