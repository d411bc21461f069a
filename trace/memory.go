// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package trace

import (
	"sync"

	"github.com/tracewire-foundation/tracewire/lib/clock"
	"github.com/tracewire-foundation/tracewire/wire"
)

// Memory is a Tracer that keeps packets in memory instead of shipping
// them. It applies the same level filter, name truncation, field
// bounds, and event attribution as the production pipeline, so tests
// of instrumented code can assert on exactly what would have reached
// the collector.
type Memory struct {
	maxLevel Level
	clock    clock.Clock
	current  currentSpans

	mu      sync.Mutex
	packets []wire.Packet
}

// NewMemory returns a Memory tracer emitting at most maxLevel, using
// clk for capture timestamps. A nil clk means the real clock.
func NewMemory(maxLevel Level, clk clock.Clock) *Memory {
	if clk == nil {
		clk = clock.Real()
	}
	return &Memory{maxLevel: maxLevel, clock: clk}
}

// Packets returns a snapshot of everything captured so far.
func (m *Memory) Packets() []wire.Packet {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]wire.Packet, len(m.packets))
	copy(out, m.packets)
	return out
}

// Reset discards captured packets.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.packets = nil
}

func (m *Memory) Enabled(level Level) bool {
	return level != 0 && level <= m.maxLevel
}

func (m *Memory) NewSpan(attrs SpanAttrs) wire.SpanID {
	id := nextSpanID()
	if !m.Enabled(attrs.Level) {
		return id
	}
	name, nameLen := wire.Truncate(attrs.Name, wire.MaxInfoSize)
	info := wire.NewInfo(attrs.Fields...)
	m.capture(wire.Packet{
		Time:    m.clock.Now().UnixNano(),
		Process: wire.CaptureProcessContext(),
		Kind:    wire.KindNewSpan,
		ID:      id,
		Name:    name,
		NameLen: uint16(nameLen),
		Info:    &info,
	})
	return id
}

func (m *Memory) Record(span wire.SpanID, fields ...wire.Field) {
	packet := wire.Packet{
		Time:    m.clock.Now().UnixNano(),
		Process: wire.CaptureProcessContext(),
		Kind:    wire.KindRecord,
		Span:    span,
	}
	if len(fields) > 0 {
		info := wire.NewInfo(fields...)
		packet.Info = &info
	}
	m.capture(packet)
}

func (m *Memory) Event(attrs EventAttrs) {
	if !m.Enabled(attrs.Level) {
		return
	}
	var parent *wire.SpanID
	if span, ok := m.current.current(); ok {
		parent = &span
	}
	name, nameLen := wire.Truncate(attrs.Name, wire.MaxInfoSize)
	info := wire.NewInfo(attrs.Fields...)
	m.capture(wire.Packet{
		Time:       m.clock.Now().UnixNano(),
		Process:    wire.CaptureProcessContext(),
		Kind:       wire.KindEvent,
		ParentSpan: parent,
		Name:       name,
		NameLen:    uint16(nameLen),
		Info:       &info,
	})
}

func (m *Memory) Enter(span wire.SpanID) {
	m.current.enter(span)
	m.capture(wire.Packet{
		Time: m.clock.Now().UnixNano(),
		Kind: wire.KindEnter,
		Span: span,
	})
}

func (m *Memory) Exit(span wire.SpanID) {
	m.current.exit(span)
	m.capture(wire.Packet{
		Time: m.clock.Now().UnixNano(),
		Kind: wire.KindExit,
		Span: span,
	})
}

func (m *Memory) capture(packet wire.Packet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.packets = append(m.packets, packet)
}
