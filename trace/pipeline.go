// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package trace

import (
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/tracewire-foundation/tracewire/lib/clock"
	"github.com/tracewire-foundation/tracewire/wire"
)

const (
	// QueueBound is the capacity of the packet queue between producers
	// and the transport worker. A full queue blocks producers rather
	// than dropping packets.
	QueueBound = 512

	// FlushInterval bounds how long an accepted packet may sit in the
	// batching buffer before it is pushed to the collector.
	FlushInterval = 500 * time.Millisecond

	// BatchBufferSize is the transport worker's batching buffer: room
	// for a full queue's worth of maximum-size packets.
	BatchBufferSize = QueueBound * wire.MaxPacketSize
)

// Config configures a Pipeline. The zero value is usable: info level,
// the default collector socket, the real clock, and the default slog
// logger.
type Config struct {
	// MaxLevel is the most verbose severity emitted. Zero means
	// LevelInfo.
	MaxLevel Level

	// SocketPath is the collector's unix socket. Empty means
	// wire.DefaultSocketPath. Ignored when Dial is set.
	SocketPath string

	// Dial opens the collector connection. Overridable for tests; nil
	// means dial SocketPath as a unix socket.
	Dial func() (net.Conn, error)

	// Clock supplies time for capture timestamps and the flush ticker.
	// Nil means the real clock.
	Clock clock.Clock

	// Logger receives the pipeline's own diagnostics (connection
	// failures, dropped oversized packets). Nil means slog.Default().
	// The pipeline never traces itself.
	Logger *slog.Logger
}

// Pipeline is the production Tracer: it builds wire packets on the
// caller's goroutine and hands them to a single background transport
// worker through a bounded queue. Construction starts the worker; the
// pipeline runs until the process exits or the worker degrades it.
//
// Degradation is one-way. When the worker cannot connect, or a write
// to the collector fails, it flips the enabled latch off and exits;
// from then on every emit call is a cheap no-op and the process keeps
// running untraced. There is no reconnect and no way back.
type Pipeline struct {
	maxLevel Level
	enabled  atomic.Bool
	queue    chan wire.Packet
	done     chan struct{}
	current  currentSpans
	clock    clock.Clock
}

// NewPipeline starts a Pipeline and its transport worker.
func NewPipeline(cfg Config) *Pipeline {
	maxLevel := cfg.MaxLevel
	if maxLevel == 0 {
		maxLevel = LevelInfo
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	dial := cfg.Dial
	if dial == nil {
		path := cfg.SocketPath
		if path == "" {
			path = wire.DefaultSocketPath
		}
		dial = func() (net.Conn, error) {
			return net.Dial("unix", path)
		}
	}

	p := &Pipeline{
		maxLevel: maxLevel,
		queue:    make(chan wire.Packet, QueueBound),
		done:     make(chan struct{}),
		clock:    clk,
	}
	p.enabled.Store(true)

	w := &worker{
		queue:   p.queue,
		done:    p.done,
		enabled: &p.enabled,
		dial:    dial,
		clock:   clk,
		logger:  logger,
	}
	go w.run()

	return p
}

// Done is closed when the transport worker has terminated and the
// pipeline is permanently disabled.
func (p *Pipeline) Done() <-chan struct{} { return p.done }

// Enabled reports whether calls at the given severity pass the
// pipeline's level filter. It reflects configuration, not transport
// health: a degraded pipeline still reports its configured levels,
// and emit calls check the degrade latch separately.
func (p *Pipeline) Enabled(level Level) bool {
	return level != 0 && level <= p.maxLevel
}

// NewSpan allocates a span id and, if the severity passes the filter,
// emits the announcement packet. The id is returned regardless so
// instrumented code never has to branch on tracer state.
func (p *Pipeline) NewSpan(attrs SpanAttrs) wire.SpanID {
	id := nextSpanID()
	if !p.Enabled(attrs.Level) {
		return id
	}
	name, nameLen := wire.Truncate(attrs.Name, wire.MaxInfoSize)
	info := wire.NewInfo(attrs.Fields...)
	p.send(wire.Packet{
		Time:    p.clock.Now().UnixNano(),
		Process: wire.CaptureProcessContext(),
		Kind:    wire.KindNewSpan,
		ID:      id,
		Name:    name,
		NameLen: uint16(nameLen),
		Info:    &info,
	})
	return id
}

// Record attaches follow-up values to span. Records carry no severity
// of their own; they are emitted whenever the pipeline is live.
func (p *Pipeline) Record(span wire.SpanID, fields ...wire.Field) {
	packet := wire.Packet{
		Time:    p.clock.Now().UnixNano(),
		Process: wire.CaptureProcessContext(),
		Kind:    wire.KindRecord,
		Span:    span,
	}
	if len(fields) > 0 {
		info := wire.NewInfo(fields...)
		packet.Info = &info
	}
	p.send(packet)
}

// Event emits a point-in-time occurrence, attributed to the innermost
// span the calling goroutine has entered, if any.
func (p *Pipeline) Event(attrs EventAttrs) {
	if !p.Enabled(attrs.Level) {
		return
	}
	var parent *wire.SpanID
	if span, ok := p.current.current(); ok {
		parent = &span
	}
	name, nameLen := wire.Truncate(attrs.Name, wire.MaxInfoSize)
	info := wire.NewInfo(attrs.Fields...)
	p.send(wire.Packet{
		Time:       p.clock.Now().UnixNano(),
		Process:    wire.CaptureProcessContext(),
		Kind:       wire.KindEvent,
		ParentSpan: parent,
		Name:       name,
		NameLen:    uint16(nameLen),
		Info:       &info,
	})
}

// Enter marks the calling goroutine as inside span. Lightweight
// capture: no process context.
func (p *Pipeline) Enter(span wire.SpanID) {
	if !p.enabled.Load() {
		return
	}
	p.current.enter(span)
	p.send(wire.Packet{
		Time: p.clock.Now().UnixNano(),
		Kind: wire.KindEnter,
		Span: span,
	})
}

// Exit marks the calling goroutine as having left span.
func (p *Pipeline) Exit(span wire.SpanID) {
	if !p.enabled.Load() {
		return
	}
	p.current.exit(span)
	p.send(wire.Packet{
		Time: p.clock.Now().UnixNano(),
		Kind: wire.KindExit,
		Span: span,
	})
}

// send enqueues a packet for the transport worker. A full queue blocks
// until the worker drains a slot; packets are never dropped for
// capacity. If the worker terminates while a producer is waiting, the
// wait ends and the producer latches the pipeline off.
func (p *Pipeline) send(packet wire.Packet) {
	if !p.enabled.Load() {
		return
	}
	select {
	case p.queue <- packet:
	case <-p.done:
		p.enabled.Store(false)
	}
}
