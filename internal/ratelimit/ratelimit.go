// Package ratelimit enforces a minimum wall-clock interval between outbound
// requests of the same class.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter spaces calls of one request class. Each fetching component owns
// its own limiters, so separate instances never cross-throttle.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time

	now   func() time.Time // for tests
	sleep func(time.Duration)
}

func New(interval time.Duration) *Limiter {
	return &Limiter{
		interval: interval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Wait blocks until the interval has elapsed since the previous call. The
// first call never waits. The new "last call" time is stamped before the
// caller issues its request, so request latency does not shorten the next
// wait. The lock is held across the sleep: two callers sharing a limiter
// serialize, which is the point.
func (l *Limiter) Wait() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.last.IsZero() && l.interval > 0 {
		if elapsed := l.now().Sub(l.last); elapsed < l.interval {
			l.sleep(l.interval - elapsed)
		}
	}
	l.last = l.now()
}
