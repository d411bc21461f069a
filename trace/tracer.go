// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package trace

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/tracewire-foundation/tracewire/wire"
)

// SpanAttrs describes a span at creation time.
type SpanAttrs struct {
	Name   string
	Level  Level
	Fields []wire.Field
}

// EventAttrs describes a point-in-time event.
type EventAttrs struct {
	Name   string
	Level  Level
	Fields []wire.Field
}

// Tracer is the capability set instrumented code programs against.
// Implementations must be safe for concurrent use from any number of
// goroutines, and must never let a tracing failure propagate into the
// caller: the contract is that instrumented code behaves identically
// whether the backend is the production pipeline, the in-memory test
// backend, or the no-op.
type Tracer interface {
	// Enabled reports whether calls at the given severity would be
	// emitted. Callers use it to skip expensive field construction.
	Enabled(level Level) bool

	// NewSpan announces a span and returns its id. The id is valid,
	// unique, and nonzero even when the span's severity is filtered or
	// the backend is disabled, so callers can thread it unconditionally.
	NewSpan(attrs SpanAttrs) wire.SpanID

	// Record attaches follow-up values to an existing span.
	Record(span wire.SpanID, fields ...wire.Field)

	// Event emits a point-in-time occurrence, attributed to the span
	// the calling goroutine is currently inside, if any.
	Event(attrs EventAttrs)

	// Enter marks the calling goroutine as inside span. Lightweight:
	// no process context is captured.
	Enter(span wire.SpanID)

	// Exit marks the calling goroutine as having left span.
	Exit(span wire.SpanID)
}

// Noop is a Tracer that emits nothing. NewSpan still allocates real
// ids from the process-wide allocator, so code instrumented against a
// Noop observes the same id semantics as against a live pipeline.
type Noop struct{}

func (Noop) Enabled(Level) bool { return false }

func (Noop) NewSpan(SpanAttrs) wire.SpanID { return nextSpanID() }

func (Noop) Record(wire.SpanID, ...wire.Field) {}

func (Noop) Event(EventAttrs) {}

func (Noop) Enter(wire.SpanID) {}

func (Noop) Exit(wire.SpanID) {}

var (
	installMu sync.Mutex
	installed atomic.Pointer[tracerBox]
)

// tracerBox wraps the interface so it can live in an atomic.Pointer.
type tracerBox struct {
	tracer Tracer
}

// ErrAlreadyInstalled is returned by Install when a process-wide
// default tracer has already been set.
var ErrAlreadyInstalled = errors.New("trace: default tracer already installed")

// Install sets the process-wide default tracer. It succeeds at most
// once per process; later calls fail with ErrAlreadyInstalled and
// leave the existing default in place.
func Install(t Tracer) error {
	if t == nil {
		return errors.New("trace: nil tracer")
	}
	installMu.Lock()
	defer installMu.Unlock()
	if installed.Load() != nil {
		return ErrAlreadyInstalled
	}
	installed.Store(&tracerBox{tracer: t})
	return nil
}

// Default returns the installed process-wide tracer, or a Noop when
// none has been installed.
func Default() Tracer {
	if box := installed.Load(); box != nil {
		return box.tracer
	}
	return Noop{}
}

// Init builds a production pipeline at the given maximum level,
// dialing the default collector socket, and installs it as the
// process-wide default. Typical main() entry point.
func Init(maxLevel Level) error {
	return Install(NewPipeline(Config{MaxLevel: maxLevel}))
}
