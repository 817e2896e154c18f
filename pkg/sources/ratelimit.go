package sources

import (
	"sync"
	"time"
)

const rateWindow = time.Minute

// rateLimitState tracks one source's request count within the current
// one-minute window.
type rateLimitState struct {
	capacity    int
	windowStart time.Time
	count       int
}

// Limiter tracks per-source request budgets over fixed one-minute windows.
// Each source's state is independent; sources without a configured budget
// are unbounded.
type Limiter struct {
	mu     sync.Mutex
	clock  func() time.Time
	states map[string]*rateLimitState
}

// NewLimiter builds a limiter with budgets taken from the source configs.
func NewLimiter(configs []SourceConfig) *Limiter {
	l := &Limiter{
		clock:  time.Now,
		states: make(map[string]*rateLimitState, len(configs)),
	}
	for _, cfg := range configs {
		if rpm := cfg.RPM(); rpm > 0 {
			l.states[cfg.Key] = &rateLimitState{capacity: rpm}
		}
	}
	return l
}

// Allow reports whether the source still has budget in the current window.
// It never blocks and does not consume budget; pair it with Record.
func (l *Limiter) Allow(sourceKey string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.states[sourceKey]
	if !ok {
		return true
	}

	l.roll(st)
	return st.count < st.capacity
}

// Record counts one request attempt against the source's window, regardless
// of the attempt's outcome.
func (l *Limiter) Record(sourceKey string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.states[sourceKey]
	if !ok {
		return
	}

	l.roll(st)
	if st.count == 0 {
		st.windowStart = l.clock()
	}
	st.count++
}

// roll resets the window once a minute has elapsed since it opened.
func (l *Limiter) roll(st *rateLimitState) {
	if st.count > 0 && l.clock().Sub(st.windowStart) > rateWindow {
		st.count = 0
		st.windowStart = time.Time{}
	}
}
