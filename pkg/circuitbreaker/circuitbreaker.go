// Package circuitbreaker implements the circuit breaker pattern to shield
// the service from a failing generative AI provider.
// No external dependencies - uses only standard library.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State represents the current state of the breaker.
type State int

const (
	// StateClosed allows requests through.
	StateClosed State = iota
	// StateOpen blocks requests.
	StateOpen
	// StateHalfOpen lets probe requests through to test recovery.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var (
	// ErrOpen is returned when the circuit is open and calls are blocked.
	ErrOpen = errors.New("circuit breaker is open")
	// ErrTooManyProbes is returned when the half-open probe budget is spent.
	ErrTooManyProbes = errors.New("too many probe requests in half-open state")
)

// Config holds breaker parameters.
type Config struct {
	// Name identifies this breaker in logs.
	Name string

	// FailureThreshold opens the circuit after this many consecutive failures.
	FailureThreshold int

	// SuccessThreshold closes the circuit after this many consecutive
	// successes in half-open state.
	SuccessThreshold int

	// OpenTimeout is how long to stay open before probing.
	OpenTimeout time.Duration

	// MaxProbes limits concurrent half-open requests.
	MaxProbes int

	// OnStateChange, if set, is called on every transition.
	OnStateChange func(name string, from, to State)
}

func (c Config) normalized() Config {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.SuccessThreshold <= 0 {
		c.SuccessThreshold = 2
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 30 * time.Second
	}
	if c.MaxProbes <= 0 {
		c.MaxProbes = 1
	}
	return c
}

// Breaker implements the circuit breaker pattern.
type Breaker struct {
	cfg Config

	mu            sync.Mutex
	state         State
	consecFails   int
	consecOKs     int
	probes        int
	lastFailureAt time.Time
}

// New creates a Breaker with the given config.
func New(cfg Config) *Breaker {
	return &Breaker{cfg: cfg.normalized(), state: StateClosed}
}

// Execute runs fn if the circuit allows it and records the outcome.
func (b *Breaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := b.allow(); err != nil {
		return err
	}
	err := fn(ctx)
	b.record(err)
	return err
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return nil
	case StateOpen:
		if time.Since(b.lastFailureAt) >= b.cfg.OpenTimeout {
			b.transition(StateHalfOpen)
			b.probes = 1
			return nil
		}
		return ErrOpen
	case StateHalfOpen:
		if b.probes < b.cfg.MaxProbes {
			b.probes++
			return nil
		}
		return ErrTooManyProbes
	default:
		return ErrOpen
	}
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.consecFails++
		b.consecOKs = 0
		b.lastFailureAt = time.Now()

		switch b.state {
		case StateClosed:
			if b.consecFails >= b.cfg.FailureThreshold {
				b.transition(StateOpen)
			}
		case StateHalfOpen:
			// Any probe failure reopens the circuit.
			b.transition(StateOpen)
		}
		return
	}

	b.consecOKs++
	b.consecFails = 0
	if b.state == StateHalfOpen && b.consecOKs >= b.cfg.SuccessThreshold {
		b.transition(StateClosed)
	}
}

// transition must be called with the lock held.
func (b *Breaker) transition(to State) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to
	b.consecFails = 0
	b.consecOKs = 0
	b.probes = 0
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.cfg.Name, from, to)
	}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reset returns the breaker to closed with zeroed counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.consecFails = 0
	b.consecOKs = 0
	b.probes = 0
}
