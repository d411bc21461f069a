// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Scaled returns a Clock whose time runs factor times as fast as the
// inner clock. A factor of 2 makes one inner second count as two
// scaled seconds; a factor of 0.5 halves the apparent rate. Panics if
// factor <= 0.
//
// The scaled epoch is the inner clock's time at construction: Now
// returns epoch + (inner elapsed × factor), and waits are shortened or
// stretched by the inverse factor so that a 500 ms scaled interval
// takes 250 ms of inner time at factor 2.
func Scaled(inner Clock, factor float64) Clock {
	if factor <= 0 {
		panic("clock: non-positive scale factor")
	}
	return &scaledClock{
		inner:  inner,
		factor: factor,
		epoch:  inner.Now(),
	}
}

type scaledClock struct {
	inner  Clock
	factor float64
	epoch  time.Time
}

func (c *scaledClock) Now() time.Time {
	elapsed := c.inner.Now().Sub(c.epoch)
	return c.epoch.Add(c.scaleUp(elapsed))
}

func (c *scaledClock) After(d time.Duration) <-chan time.Time {
	return c.inner.After(c.scaleDown(d))
}

func (c *scaledClock) NewTicker(d time.Duration) *Ticker {
	return c.inner.NewTicker(c.scaleDown(d))
}

func (c *scaledClock) Sleep(d time.Duration) {
	c.inner.Sleep(c.scaleDown(d))
}

// scaleUp converts an inner-clock duration to a scaled duration.
func (c *scaledClock) scaleUp(d time.Duration) time.Duration {
	return time.Duration(float64(d) * c.factor)
}

// scaleDown converts a scaled duration to the inner-clock duration
// that represents it.
func (c *scaledClock) scaleDown(d time.Duration) time.Duration {
	return time.Duration(float64(d) / c.factor)
}
