package clock

import (
	"sync"
	"time"
)

// Fake is a manually driven Clock. After advances the fake time by d and
// fires immediately, so a countdown of any length completes without sleeping.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	onAfter func(now time.Time)
}

// NewFake returns a Fake clock starting at now.
func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

// Now returns the current fake time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// OnAfter registers fn to run after every After call with the advanced time.
func (f *Fake) OnAfter(fn func(now time.Time)) {
	f.mu.Lock()
	f.onAfter = fn
	f.mu.Unlock()
}

// After advances the clock by d and returns an already-fired channel.
func (f *Fake) After(d time.Duration) <-chan time.Time {
	f.mu.Lock()
	f.now = f.now.Add(d)
	now, hook := f.now, f.onAfter
	f.mu.Unlock()

	if hook != nil {
		hook(now)
	}
	ch := make(chan time.Time, 1)
	ch <- now
	return ch
}
