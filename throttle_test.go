package inkwell

import (
	"testing"
	"time"
)

func newTestThrottle(start time.Time) (*viewThrottle, *time.Time) {
	clock := start
	t := &viewThrottle{
		seen:   make(map[string]time.Time),
		window: viewWindow,
		now:    func() time.Time { return clock },
		done:   make(chan struct{}),
	}
	return t, &clock
}

func TestViewThrottleWindow(t *testing.T) {
	th, clock := newTestThrottle(time.Unix(1000, 0))

	if !th.CheckAndRecord("a:1") {
		t.Fatal("first hit must count")
	}
	if th.CheckAndRecord("a:1") {
		t.Fatal("repeat hit inside the window must be suppressed")
	}

	*clock = clock.Add(viewWindow - time.Second)
	if th.CheckAndRecord("a:1") {
		t.Fatal("hit just inside the window must be suppressed")
	}

	*clock = clock.Add(2 * time.Second)
	if !th.CheckAndRecord("a:1") {
		t.Fatal("hit after the window must count")
	}
}

func TestViewThrottleSuppressedHitDoesNotExtend(t *testing.T) {
	th, clock := newTestThrottle(time.Unix(1000, 0))

	th.CheckAndRecord("a:1")
	*clock = clock.Add(20 * time.Second)
	th.CheckAndRecord("a:1") // suppressed, must not reset the window

	*clock = clock.Add(11 * time.Second)
	if !th.CheckAndRecord("a:1") {
		t.Fatal("window is measured from the counted hit, not the suppressed one")
	}
}

func TestViewThrottleKeysAreIndependent(t *testing.T) {
	th, _ := newTestThrottle(time.Unix(1000, 0))

	th.CheckAndRecord("a:1")
	if !th.CheckAndRecord("b:1") {
		t.Fatal("different client must count")
	}
	if !th.CheckAndRecord("a:2") {
		t.Fatal("different post must count")
	}
}

func TestViewThrottleSweepEvictsStaleEntries(t *testing.T) {
	th, clock := newTestThrottle(time.Unix(1000, 0))

	th.CheckAndRecord("a:1")
	th.CheckAndRecord("b:1")
	*clock = clock.Add(viewWindow + time.Minute)

	// Run one sweep pass directly instead of waiting on the ticker.
	cutoff := th.now().Add(-th.window)
	th.mu.Lock()
	for key, last := range th.seen {
		if last.Before(cutoff) {
			delete(th.seen, key)
		}
	}
	th.mu.Unlock()

	th.mu.Lock()
	n := len(th.seen)
	th.mu.Unlock()
	if n != 0 {
		t.Fatalf("seen has %d entries after sweep, want 0", n)
	}
}

func TestViewThrottleStopIsIdempotent(t *testing.T) {
	th := newViewThrottle(viewWindow, time.Hour)
	th.Stop()
	th.Stop()
}
