// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock initialized to the given time. Time stands
// still until Advance is called. Timers, tickers, and sleeps register
// pending waiters that fire when the clock advances past their
// deadline.
//
// FakeClock is safe for concurrent use by multiple goroutines.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// FakeClock is a deterministic Clock for testing. Time advances only
// when Advance is called.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	waiters []*fakeWaiter
}

// fakeWaiter is a pending After, Sleep, or Ticker operation.
type fakeWaiter struct {
	deadline time.Time
	channel  chan time.Time

	// interval is non-zero for ticker waiters. After firing, the
	// waiter is rescheduled at deadline + interval.
	interval time.Duration

	stopped bool
	fired   bool
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// After returns a channel that receives after duration d elapses. If
// d <= 0, the channel receives immediately without registering a
// waiter.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- c.current
		return channel
	}
	c.waiters = append(c.waiters, &fakeWaiter{
		deadline: c.current.Add(d),
		channel:  channel,
	})
	return channel
}

// NewTicker returns a Ticker that fires every time the clock advances
// past a multiple of d. Panics if d <= 0, matching time.NewTicker.
func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	waiter := &fakeWaiter{
		deadline: c.current.Add(d),
		channel:  make(chan time.Time, 1),
		interval: d,
	}
	c.waiters = append(c.waiters, waiter)

	return &Ticker{
		C: waiter.channel,
		stopFunc: func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			waiter.stopped = true
		},
	}
}

// Sleep blocks until the clock has been advanced past the deadline.
func (c *FakeClock) Sleep(d time.Duration) {
	<-c.After(d)
}

// Advance moves the clock forward by d, firing every waiter whose
// deadline is at or before the new time. Tickers fire once per elapsed
// interval; if their channel is already full the tick is dropped, the
// same behavior as time.Ticker.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := c.current.Add(d)

	for {
		next := c.nextDeadlineLocked(target)
		if next == nil {
			break
		}
		c.current = next.deadline
		c.fireLocked(next)
	}

	c.current = target
	c.compactLocked()
}

// nextDeadlineLocked returns the unfired waiter with the earliest
// deadline at or before target, or nil if none remain.
func (c *FakeClock) nextDeadlineLocked(target time.Time) *fakeWaiter {
	sort.SliceStable(c.waiters, func(i, j int) bool {
		return c.waiters[i].deadline.Before(c.waiters[j].deadline)
	})
	for _, waiter := range c.waiters {
		if waiter.stopped || waiter.fired {
			continue
		}
		if waiter.deadline.After(target) {
			return nil
		}
		return waiter
	}
	return nil
}

// fireLocked delivers a tick to the waiter and reschedules it if it is
// a ticker.
func (c *FakeClock) fireLocked(waiter *fakeWaiter) {
	select {
	case waiter.channel <- waiter.deadline:
	default:
		// Consumer has not drained the previous tick; drop.
	}
	if waiter.interval > 0 {
		waiter.deadline = waiter.deadline.Add(waiter.interval)
		return
	}
	waiter.fired = true
}

// compactLocked drops fired and stopped waiters.
func (c *FakeClock) compactLocked() {
	kept := c.waiters[:0]
	for _, waiter := range c.waiters {
		if waiter.fired || waiter.stopped {
			continue
		}
		kept = append(kept, waiter)
	}
	c.waiters = kept
}
