// Package circuitbreaker stops calls to an upstream that keeps failing.
// After enough consecutive failures the breaker opens and calls fail fast
// with ErrOpen; once a cooldown passes, probe calls are let through until
// the upstream proves healthy again.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned without running the call while the breaker is open.
var ErrOpen = errors.New("circuit open")

// State is where the breaker currently stands.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	}
	return "unknown"
}

// Config tunes a Breaker. Zero values get sensible defaults.
type Config struct {
	// FailureThreshold is how many consecutive counted failures open the
	// breaker. Default 5.
	FailureThreshold int

	// SuccessThreshold is how many probe successes close a half-open
	// breaker. Default 2.
	SuccessThreshold int

	// Cooldown is how long an open breaker waits before letting a probe
	// through. Default 30s.
	Cooldown time.Duration

	// IsFailure decides which errors count against the upstream. Errors it
	// rejects pass through without moving the breaker; a not-found from a
	// healthy upstream is not an outage. Default counts every error.
	IsFailure func(error) bool

	// OnStateChange is called after each transition, outside the lock.
	OnStateChange func(from, to State)
}

// Breaker is safe for concurrent use.
type Breaker struct {
	cfg Config
	now func() time.Time

	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	lastFailure time.Time
}

// New builds a Breaker from cfg, filling in defaults.
func New(cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = func(err error) bool { return err != nil }
	}
	return &Breaker{cfg: cfg, now: time.Now, state: StateClosed}
}

// Do runs fn unless the breaker is open and still cooling down. The first
// call after the cooldown runs as a probe in the half-open state.
func (b *Breaker) Do(fn func() error) error {
	b.mu.Lock()
	if b.state == StateOpen {
		if b.now().Sub(b.lastFailure) < b.cfg.Cooldown {
			b.mu.Unlock()
			return ErrOpen
		}
		b.transition(StateHalfOpen)
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	switch {
	case err == nil:
		b.failures = 0
		if b.state == StateHalfOpen {
			b.successes++
			if b.successes >= b.cfg.SuccessThreshold {
				b.transition(StateClosed)
			}
		}
	case b.cfg.IsFailure(err):
		b.failures++
		b.lastFailure = b.now()
		if b.state == StateHalfOpen || b.failures >= b.cfg.FailureThreshold {
			b.transition(StateOpen)
		}
	}
	b.mu.Unlock()
	return err
}

// State returns where the breaker currently stands.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// transition must be called with the lock held. The OnStateChange hook runs
// on a fresh goroutine so a slow hook never blocks calls.
func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	b.failures = 0
	b.successes = 0
	if b.cfg.OnStateChange != nil {
		go b.cfg.OnStateChange(from, to)
	}
}
