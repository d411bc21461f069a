// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package trace

import (
	"sync"

	"github.com/petermattis/goid"

	"github.com/tracewire-foundation/tracewire/wire"
)

// currentSpans tracks which span each goroutine is currently inside,
// so events can be attributed to their enclosing span. Goroutines have
// no language-level local storage, so the registry keys per-goroutine
// stacks by runtime goroutine id.
//
// Each stack is only ever touched by its owning goroutine; the
// sync.Map synchronizes the key space, not the stacks.
type currentSpans struct {
	stacks sync.Map // goroutine id (int64) -> *spanStack
}

type spanStack struct {
	ids []wire.SpanID
}

// enter pushes span onto the calling goroutine's stack.
func (c *currentSpans) enter(span wire.SpanID) {
	gid := goid.Get()
	value, ok := c.stacks.Load(gid)
	if !ok {
		value, _ = c.stacks.LoadOrStore(gid, &spanStack{})
	}
	stack := value.(*spanStack)
	stack.ids = append(stack.ids, span)
}

// exit removes the most recent occurrence of span from the calling
// goroutine's stack. With disciplined enter/exit nesting that is the
// top entry; searching downward tolerates out-of-order exits without
// corrupting the rest of the stack.
func (c *currentSpans) exit(span wire.SpanID) {
	gid := goid.Get()
	value, ok := c.stacks.Load(gid)
	if !ok {
		return
	}
	stack := value.(*spanStack)
	for i := len(stack.ids) - 1; i >= 0; i-- {
		if stack.ids[i] == span {
			stack.ids = append(stack.ids[:i], stack.ids[i+1:]...)
			break
		}
	}
	if len(stack.ids) == 0 {
		c.stacks.Delete(gid)
	}
}

// current returns the span the calling goroutine is innermost inside,
// if any.
func (c *currentSpans) current() (wire.SpanID, bool) {
	value, ok := c.stacks.Load(goid.Get())
	if !ok {
		return 0, false
	}
	stack := value.(*spanStack)
	if len(stack.ids) == 0 {
		return 0, false
	}
	return stack.ids[len(stack.ids)-1], true
}
