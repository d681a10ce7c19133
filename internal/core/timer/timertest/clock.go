// Package timertest provides a manually advanced clock for driving the timer
// engine deterministically in tests.
package timertest

import (
	"sort"
	"sync"
	"time"

	"pomobar/internal/core/timer"
)

// Clock is a timer.Clock whose time only moves on Advance. Callbacks that
// become due are run synchronously on the goroutine calling Advance.
type Clock struct {
	mu      sync.Mutex
	now     time.Time
	nextSeq uint64
	timers  []*scheduled
}

type scheduled struct {
	clock *Clock
	when  time.Time
	seq   uint64
	f     func()
}

// NewClock returns a clock set to start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current manual time.
func (clock *Clock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

// AfterFunc schedules f to run once Advance reaches now+delay.
func (clock *Clock) AfterFunc(delay time.Duration, f func()) timer.Stopper {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.nextSeq++
	entry := &scheduled{clock: clock, when: clock.now.Add(delay), seq: clock.nextSeq, f: f}
	clock.timers = append(clock.timers, entry)
	return entry
}

// Advance moves time forward by delta, firing every callback that falls due,
// in time order, including callbacks scheduled by earlier callbacks.
func (clock *Clock) Advance(delta time.Duration) {
	clock.mu.Lock()
	target := clock.now.Add(delta)
	clock.mu.Unlock()

	for {
		clock.mu.Lock()
		next := clock.popDueLocked(target)
		if next == nil {
			clock.now = target
			clock.mu.Unlock()
			return
		}
		clock.now = next.when
		clock.mu.Unlock()
		next.f()
	}
}

// Pending returns the number of scheduled callbacks not yet fired or stopped.
func (clock *Clock) Pending() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return len(clock.timers)
}

func (clock *Clock) popDueLocked(target time.Time) *scheduled {
	if len(clock.timers) == 0 {
		return nil
	}
	sort.Slice(clock.timers, func(i, j int) bool {
		if clock.timers[i].when.Equal(clock.timers[j].when) {
			return clock.timers[i].seq < clock.timers[j].seq
		}
		return clock.timers[i].when.Before(clock.timers[j].when)
	})
	first := clock.timers[0]
	if first.when.After(target) {
		return nil
	}
	clock.timers = clock.timers[1:]
	return first
}

// Stop cancels the callback, reporting whether it was still pending.
func (entry *scheduled) Stop() bool {
	clock := entry.clock
	clock.mu.Lock()
	defer clock.mu.Unlock()
	for i, candidate := range clock.timers {
		if candidate == entry {
			clock.timers = append(clock.timers[:i], clock.timers[i+1:]...)
			return true
		}
	}
	return false
}
