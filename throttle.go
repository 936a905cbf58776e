package inkwell

import (
	"sync"
	"time"
)

const (
	viewWindow        = 30 * time.Second
	viewSweepInterval = time.Hour
)

// ViewThrottle suppresses duplicate view-count increments for the same
// (client, post) pair within a time window. The in-memory implementation is
// process-local; a multi-instance deployment would swap in a shared TTL store
// behind the same interface.
type ViewThrottle interface {
	CheckAndRecord(key string) bool
	Stop()
}

// viewThrottle maps throttle keys to the last counted time and sweeps stale
// entries in the background to bound memory.
type viewThrottle struct {
	mu     sync.Mutex
	seen   map[string]time.Time
	window time.Duration
	now    func() time.Time
	done   chan struct{}
	once   sync.Once
}

func newViewThrottle(window, sweepEvery time.Duration) *viewThrottle {
	t := &viewThrottle{
		seen:   make(map[string]time.Time),
		window: window,
		now:    time.Now,
		done:   make(chan struct{}),
	}
	go t.sweep(sweepEvery)
	return t
}

// CheckAndRecord returns true and records the timestamp if key has not been
// counted within the window; it returns false without mutating otherwise.
func (t *viewThrottle) CheckAndRecord(key string) bool {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if last, ok := t.seen[key]; ok && now.Sub(last) < t.window {
		return false
	}
	t.seen[key] = now
	return true
}

func (t *viewThrottle) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := t.now().Add(-t.window)
			t.mu.Lock()
			for key, last := range t.seen {
				if last.Before(cutoff) {
					delete(t.seen, key)
				}
			}
			t.mu.Unlock()
		case <-t.done:
			return
		}
	}
}

// Stop terminates the sweep goroutine. Safe to call more than once.
func (t *viewThrottle) Stop() {
	t.once.Do(func() { close(t.done) })
}
