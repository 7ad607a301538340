// Package circuit provides a two-state circuit breaker for optional dependencies.
package circuit

import "sync"

// Transition reports whether a Record call moved the breaker.
type Transition struct {
	Opened bool
	Closed bool
}

// Breaker opens after a run of consecutive failures and closes again after a
// run of consecutive successes observed while open.
type Breaker struct {
	mu        sync.Mutex
	name      string
	open      bool
	failures  int
	successes int
	openAfter int
	closeAt   int
}

type Option func(*Breaker)

// WithFailureThreshold sets how many consecutive failures open the breaker. Default 5.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.openAfter = n
		}
	}
}

// WithSuccessThreshold sets how many consecutive successes close it. Default 3.
func WithSuccessThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.closeAt = n
		}
	}
}

func New(name string, opts ...Option) *Breaker {
	b := &Breaker{name: name, openAfter: 5, closeAt: 3}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *Breaker) Name() string {
	return b.name
}

func (b *Breaker) IsOpen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open
}

// Record feeds one outcome into the breaker. A nil err counts as a success.
func (b *Breaker) Record(err error) Transition {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failures++
		b.successes = 0
		if !b.open && b.failures >= b.openAfter {
			b.open = true
			return Transition{Opened: true}
		}
		return Transition{}
	}

	b.failures = 0
	if !b.open {
		return Transition{}
	}
	b.successes++
	if b.successes < b.closeAt {
		return Transition{}
	}
	b.open = false
	b.successes = 0
	return Transition{Closed: true}
}
