// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package trace

import (
	"strings"
	"testing"
	"time"

	"github.com/tracewire-foundation/tracewire/lib/clock"
	"github.com/tracewire-foundation/tracewire/wire"
)

func TestMemoryCapturesLifecycle(t *testing.T) {
	t.Parallel()

	m := NewMemory(LevelDebug, clock.Fake(time.Unix(50, 0)))

	id := m.NewSpan(SpanAttrs{
		Name:   "ingest",
		Level:  LevelDebug,
		Fields: []wire.Field{wire.StringField("source", "camera")},
	})
	m.Enter(id)
	m.Event(EventAttrs{Name: "frame", Level: LevelInfo})
	m.Exit(id)

	packets := m.Packets()
	if len(packets) != 4 {
		t.Fatalf("expected 4 packets, got %d", len(packets))
	}
	if packets[0].Kind != wire.KindNewSpan || packets[0].ID != id {
		t.Fatalf("expected new_span id=%d, got %s", id, &packets[0])
	}
	if packets[1].Kind != wire.KindEnter || packets[1].Span != id {
		t.Fatalf("expected enter, got %s", &packets[1])
	}
	event := packets[2]
	if event.Kind != wire.KindEvent || event.ParentSpan == nil || *event.ParentSpan != id {
		t.Fatalf("expected event attributed to span %d, got %s", id, &event)
	}
	if packets[3].Kind != wire.KindExit {
		t.Fatalf("expected exit, got %s", &packets[3])
	}

	m.Reset()
	if len(m.Packets()) != 0 {
		t.Fatal("Reset must discard captured packets")
	}
}

func TestMemoryAppliesLevelFilter(t *testing.T) {
	t.Parallel()

	m := NewMemory(LevelWarn, clock.Fake(time.Unix(50, 0)))

	id := m.NewSpan(SpanAttrs{Name: "quiet", Level: LevelInfo})
	if id == 0 {
		t.Fatal("filtered NewSpan must still return a valid id")
	}
	m.Event(EventAttrs{Name: "chatter", Level: LevelDebug})
	m.Event(EventAttrs{Name: "alarm", Level: LevelError})

	packets := m.Packets()
	if len(packets) != 1 {
		t.Fatalf("expected only the error event, got %d packets", len(packets))
	}
	if packets[0].Name != "alarm" {
		t.Fatalf("expected alarm event, got %s", &packets[0])
	}
}

func TestMemoryTruncatesNames(t *testing.T) {
	t.Parallel()

	m := NewMemory(LevelTrace, clock.Fake(time.Unix(50, 0)))
	long := strings.Repeat("n", wire.MaxInfoSize+40)
	m.NewSpan(SpanAttrs{Name: long, Level: LevelInfo})

	packets := m.Packets()
	if len(packets) != 1 {
		t.Fatalf("expected 1 packet, got %d", len(packets))
	}
	if len(packets[0].Name) != wire.MaxInfoSize || packets[0].NameLen != wire.MaxInfoSize {
		t.Fatalf("expected name truncated to %d, got %d/%d",
			wire.MaxInfoSize, len(packets[0].Name), packets[0].NameLen)
	}
}
