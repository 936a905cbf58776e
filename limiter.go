package inkwell

import (
	"sync"
	"time"
)

// loginLimiter rate-limits login attempts per client address with a sliding
// window. Only failed attempts are recorded; a successful login does not
// count against the caller.
type loginLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	max      int
	window   time.Duration
	now      func() time.Time
}

func newLoginLimiter(max int, window time.Duration) *loginLimiter {
	return &loginLimiter{
		attempts: make(map[string][]time.Time),
		max:      max,
		window:   window,
		now:      time.Now,
	}
}

// Check reports whether the address is under the limit. It prunes expired
// attempts as a side effect, which also bounds memory without a sweeper.
func (l *loginLimiter) Check(addr string) bool {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	hits := l.attempts[addr]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(l.attempts, addr)
	} else {
		l.attempts[addr] = kept
	}
	return len(kept) < l.max
}

// Record registers a failed attempt for the address.
func (l *loginLimiter) Record(addr string) {
	l.mu.Lock()
	l.attempts[addr] = append(l.attempts[addr], l.now())
	l.mu.Unlock()
}
