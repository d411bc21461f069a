// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package trace

import "testing"

func TestCurrentSpansNesting(t *testing.T) {
	t.Parallel()

	var c currentSpans

	if _, ok := c.current(); ok {
		t.Fatal("expected no current span before any enter")
	}

	c.enter(1)
	c.enter(2)
	if span, ok := c.current(); !ok || span != 2 {
		t.Fatalf("expected current span 2, got %d (ok=%v)", span, ok)
	}

	c.exit(2)
	if span, ok := c.current(); !ok || span != 1 {
		t.Fatalf("expected current span 1, got %d (ok=%v)", span, ok)
	}

	c.exit(1)
	if _, ok := c.current(); ok {
		t.Fatal("expected no current span after all exits")
	}
}

func TestCurrentSpansOutOfOrderExit(t *testing.T) {
	t.Parallel()

	var c currentSpans
	c.enter(1)
	c.enter(2)

	// Exiting the outer span first must not disturb the inner one.
	c.exit(1)
	if span, ok := c.current(); !ok || span != 2 {
		t.Fatalf("expected current span 2 after out-of-order exit, got %d (ok=%v)", span, ok)
	}
}

func TestCurrentSpansExitUnknownSpan(t *testing.T) {
	t.Parallel()

	var c currentSpans
	c.exit(99) // never entered; must be a no-op
	c.enter(1)
	c.exit(99)
	if span, ok := c.current(); !ok || span != 1 {
		t.Fatalf("expected current span 1, got %d (ok=%v)", span, ok)
	}
}

func TestCurrentSpansPerGoroutine(t *testing.T) {
	t.Parallel()

	var c currentSpans
	c.enter(1)

	result := make(chan bool)
	go func() {
		// A fresh goroutine must not inherit the caller's span, and its
		// own enter must not leak back.
		if _, ok := c.current(); ok {
			result <- false
			return
		}
		c.enter(2)
		span, ok := c.current()
		c.exit(2)
		result <- ok && span == 2
	}()
	if !<-result {
		t.Fatal("goroutine saw another goroutine's span state")
	}

	if span, ok := c.current(); !ok || span != 1 {
		t.Fatalf("expected current span 1 on original goroutine, got %d (ok=%v)", span, ok)
	}
}
