package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState uint8

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}

// breaker trips after FailureThreshold consecutive failures, rejects calls
// until OpenTimeout elapses, then admits HalfOpenMaxReq probes. All probes
// must succeed to close it again; one failed probe reopens it.
type breaker struct {
	mu  sync.Mutex
	cfg CircuitBreakerConfig
	now func() time.Time

	state     CircuitState
	failures  int
	openUntil time.Time
	probes    int
	probesOK  int
}

func newBreaker(cfg CircuitBreakerConfig) *breaker {
	return &breaker{cfg: NormalizeCircuitBreakerConfig(cfg), now: time.Now}
}

func (b *breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitOpen {
		if b.now().Before(b.openUntil) {
			return ErrCircuitOpen
		}
		b.state, b.probes, b.probesOK = CircuitHalfOpen, 0, 0
	}
	if b.state == CircuitHalfOpen {
		if b.probes >= b.cfg.HalfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.probes++
	}
	return nil
}

func (b *breaker) settle(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case CircuitClosed:
		if !failed {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.trip()
		}
	case CircuitHalfOpen:
		if failed {
			b.trip()
			return
		}
		b.probesOK++
		if b.probesOK >= b.cfg.HalfOpenMaxReq {
			b.state, b.failures = CircuitClosed, 0
		}
	case CircuitOpen:
		if failed {
			b.openUntil = b.now().Add(b.cfg.OpenTimeout)
		}
	}
}

func (b *breaker) trip() {
	b.state = CircuitOpen
	b.openUntil = b.now().Add(b.cfg.OpenTimeout)
	b.probes, b.probesOK = 0, 0
}

func (b *breaker) current() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitOpen && !b.now().Before(b.openUntil) {
		return CircuitHalfOpen
	}
	return b.state
}

// Guard wraps outbound calls with a breaker. A disabled or nil Guard runs
// every call.
type Guard struct {
	enabled bool
	breaker *breaker
}

func NewGuard(cfg CircuitBreakerConfig) *Guard {
	return &Guard{enabled: cfg.Enabled, breaker: newBreaker(cfg)}
}

// Do runs fn when the breaker admits the call. Only errors for which
// countsAsFailure returns true count against the breaker.
func (g *Guard) Do(fn func() error, countsAsFailure func(error) bool) error {
	if g == nil || !g.enabled {
		return fn()
	}
	if err := g.breaker.admit(); err != nil {
		return err
	}

	err := fn()
	g.breaker.settle(err != nil && countsAsFailure != nil && countsAsFailure(err))
	return err
}

func (g *Guard) State() CircuitState {
	if g == nil || !g.enabled {
		return CircuitClosed
	}
	return g.breaker.current()
}
