package resilience

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// Config is the per-dependency breaker setup loaded from the environment.
type Config struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		FailureThreshold: 5,
		OpenTimeout:      15 * time.Second,
		HalfOpenMaxReq:   2,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.FailureThreshold < 1 {
		c.FailureThreshold = defaults.FailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = defaults.OpenTimeout
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = defaults.HalfOpenMaxReq
	}
	return c
}

// CircuitBreaker guards calls to one remote dependency. A nil breaker
// admits every call, which is what a disabled Config produces.
type CircuitBreaker struct {
	name string
	cfg  Config
	now  func() time.Time

	mu                sync.Mutex
	state             CircuitState
	failures          int
	openedAt          time.Time
	halfOpenInFlight  int
	halfOpenSuccesses int
}

// NewCircuitBreaker returns nil when cfg is disabled.
func NewCircuitBreaker(name string, cfg Config) *CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}
	return &CircuitBreaker{
		name:  name,
		cfg:   cfg.withDefaults(),
		now:   time.Now,
		state: CircuitStateClosed,
	}
}

// Execute runs fn when the breaker admits the call and records its outcome.
// Errors for which isFailure returns false count as successes; a nil
// isFailure treats every error as a failure. Rejections wrap ErrCircuitOpen.
func (b *CircuitBreaker) Execute(fn func() error, isFailure func(error) bool) error {
	if b == nil {
		return fn()
	}
	if err := b.admit(); err != nil {
		return err
	}

	err := fn()
	b.record(err == nil || (isFailure != nil && !isFailure(err)))
	return err
}

func (b *CircuitBreaker) State() CircuitState {
	if b == nil {
		return CircuitStateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.now().Sub(b.openedAt) >= b.cfg.OpenTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen {
		if b.now().Sub(b.openedAt) < b.cfg.OpenTimeout {
			return fmt.Errorf("%s: %w", b.name, ErrCircuitOpen)
		}
		b.moveTo(CircuitStateHalfOpen)
	}
	if b.state == CircuitStateHalfOpen {
		if b.halfOpenInFlight >= b.cfg.HalfOpenMaxReq {
			return fmt.Errorf("%s: %w", b.name, ErrCircuitOpen)
		}
		b.halfOpenInFlight++
	}
	return nil
}

func (b *CircuitBreaker) record(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateHalfOpen && b.halfOpenInFlight > 0 {
		b.halfOpenInFlight--
	}

	switch {
	case b.state == CircuitStateClosed && ok:
		b.failures = 0
	case b.state == CircuitStateClosed:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.moveTo(CircuitStateOpen)
		}
	case b.state == CircuitStateHalfOpen && ok:
		b.halfOpenSuccesses++
		if b.halfOpenSuccesses >= b.cfg.HalfOpenMaxReq && b.halfOpenInFlight == 0 {
			b.moveTo(CircuitStateClosed)
		}
	case b.state == CircuitStateHalfOpen:
		b.moveTo(CircuitStateOpen)
	case b.state == CircuitStateOpen && !ok:
		b.openedAt = b.now()
	}
}

func (b *CircuitBreaker) moveTo(state CircuitState) {
	b.state = state
	b.failures = 0
	b.halfOpenInFlight = 0
	b.halfOpenSuccesses = 0
	b.openedAt = time.Time{}
	if state == CircuitStateOpen {
		b.openedAt = b.now()
	}
}
