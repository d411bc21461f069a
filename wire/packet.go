// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package wire

// Size and framing constants. These are fixed at compile time, not
// runtime-configurable: the transport worker's buffers are sized from
// them and the paired collector assumes the same bounds.
const (
	// MaxInfoSize is the maximum byte length of any single span name,
	// event name, field key, or field string value. Longer strings are
	// truncated at a UTF-8 rune boundary (see Truncate).
	MaxInfoSize = 128

	// MaxFields is the maximum number of structured fields attached to
	// one span or event. Fields beyond the bound are counted in
	// Info.Dropped rather than silently discarded.
	MaxFields = 8

	// MaxPacketSize is the maximum size of one CBOR-encoded packet
	// before framing. Sized so a packet with a full-length name and
	// MaxFields full-length fields fits with headroom.
	MaxPacketSize = 4096

	// FrameDelimiter terminates every COBS frame on the stream. COBS
	// guarantees the encoded frame body contains no zero byte.
	FrameDelimiter byte = 0x00
)

// DefaultSocketPath is the unix socket path the collector listens on
// and the transport worker dials.
const DefaultSocketPath = "/tmp/tracewire.sock"

// SpanID identifies a span. IDs are process-unique, strictly positive,
// and monotonically increasing in allocation order. Zero is reserved
// and never a valid span.
type SpanID uint64

// Kind discriminates the packet payload variants.
type Kind uint8

const (
	// KindNewSpan announces a span: its id, name, and structured fields.
	KindNewSpan Kind = 1
	// KindRecord attaches follow-up values to an existing span.
	KindRecord Kind = 2
	// KindEvent is a point-in-time occurrence, optionally attributed
	// to the span the emitting goroutine is currently inside.
	KindEvent Kind = 3
	// KindEnter marks entry into a span. Lightweight capture.
	KindEnter Kind = 4
	// KindExit marks exit from a span. Lightweight capture.
	KindExit Kind = 5
)

// String returns the kind name used in rendered output.
func (k Kind) String() string {
	switch k {
	case KindNewSpan:
		return "new_span"
	case KindRecord:
		return "record"
	case KindEvent:
		return "event"
	case KindEnter:
		return "enter"
	case KindExit:
		return "exit"
	default:
		return "unknown"
	}
}

// ProcessContext carries the emitting process and OS thread identity.
// Present only in "with process context" capture mode (span creation,
// record, event). Enter/exit packets omit it — they fire on hot paths
// where the extra capture and bytes are not worth it.
type ProcessContext struct {
	PID int32 `cbor:"pid"`
	TID int32 `cbor:"tid"`
}

// Packet is the envelope written to the wire: a capture timestamp,
// optional process context, and exactly one payload variant selected
// by Kind. The envelope is flat — each variant populates its own
// subset of fields and leaves the rest at their zero value, which the
// omitempty tags elide from the encoding.
//
// Variant field usage:
//
//	KindNewSpan: ID, Name, NameLen, Info
//	KindRecord:  Span, Info (optional)
//	KindEvent:   ParentSpan (optional), Name, NameLen, Info
//	KindEnter:   Span
//	KindExit:    Span
type Packet struct {
	// Time is the capture timestamp in Unix nanoseconds.
	Time int64 `cbor:"time"`

	// Process is the emitting process context; nil in lightweight
	// capture mode.
	Process *ProcessContext `cbor:"process,omitempty"`

	// Kind selects the payload variant.
	Kind Kind `cbor:"kind"`

	// ID is the newly allocated span id (KindNewSpan).
	ID SpanID `cbor:"id,omitempty"`

	// Span is the subject span (KindRecord, KindEnter, KindExit).
	Span SpanID `cbor:"span,omitempty"`

	// ParentSpan is the span the emitting goroutine was inside when
	// the event fired, if any (KindEvent).
	ParentSpan *SpanID `cbor:"parent_span,omitempty"`

	// Name is the span or event name, truncated to MaxInfoSize bytes
	// at a rune boundary (KindNewSpan, KindEvent).
	Name string `cbor:"name,omitempty"`

	// NameLen is the retained byte length of Name. Recorded explicitly
	// so the consumer can distinguish a name that happened to fit from
	// one cut at the MaxInfoSize capacity.
	NameLen uint16 `cbor:"name_len,omitempty"`

	// Info is the bounded structured field set (KindNewSpan,
	// KindEvent, optionally KindRecord).
	Info *Info `cbor:"info,omitempty"`
}

// FieldKind discriminates field value types.
type FieldKind uint8

const (
	FieldKindString FieldKind = 1
	FieldKindInt    FieldKind = 2
	FieldKindUint   FieldKind = 3
	FieldKindFloat  FieldKind = 4
	FieldKindBool   FieldKind = 5
)

// Field is one structured key/value pair. Keys and string values are
// truncated to MaxInfoSize by the constructors; exactly one value slot
// is populated according to Kind.
type Field struct {
	Key  string    `cbor:"key"`
	Kind FieldKind `cbor:"fkind"`

	Str   string  `cbor:"str,omitempty"`
	Int   int64   `cbor:"int,omitempty"`
	Uint  uint64  `cbor:"uint,omitempty"`
	Float float64 `cbor:"float,omitempty"`
	Bool  bool    `cbor:"bool,omitempty"`
}

// StringField returns a string-valued field. Key and value are
// truncated to MaxInfoSize at a rune boundary.
func StringField(key, value string) Field {
	key, _ = Truncate(key, MaxInfoSize)
	value, _ = Truncate(value, MaxInfoSize)
	return Field{Key: key, Kind: FieldKindString, Str: value}
}

// IntField returns a signed-integer field.
func IntField(key string, value int64) Field {
	key, _ = Truncate(key, MaxInfoSize)
	return Field{Key: key, Kind: FieldKindInt, Int: value}
}

// UintField returns an unsigned-integer field.
func UintField(key string, value uint64) Field {
	key, _ = Truncate(key, MaxInfoSize)
	return Field{Key: key, Kind: FieldKindUint, Uint: value}
}

// FloatField returns a float field.
func FloatField(key string, value float64) Field {
	key, _ = Truncate(key, MaxInfoSize)
	return Field{Key: key, Kind: FieldKindFloat, Float: value}
}

// BoolField returns a boolean field.
func BoolField(key string, value bool) Field {
	key, _ = Truncate(key, MaxInfoSize)
	return Field{Key: key, Kind: FieldKindBool, Bool: value}
}

// Info is the bounded structured field set attached to a span or
// event. At most MaxFields fields are retained; the count of fields
// that did not fit is carried in Dropped so the consumer can tell a
// small field set from a clipped one.
type Info struct {
	Fields  []Field `cbor:"fields,omitempty"`
	Dropped uint8   `cbor:"dropped,omitempty"`
}

// NewInfo collects fields into an Info, enforcing the MaxFields bound.
func NewInfo(fields ...Field) Info {
	var info Info
	for _, field := range fields {
		info.Add(field)
	}
	return info
}

// Add appends a field, or counts it as dropped when the set is full.
// Reports whether the field was retained.
func (i *Info) Add(field Field) bool {
	if len(i.Fields) >= MaxFields {
		if i.Dropped < ^uint8(0) {
			i.Dropped++
		}
		return false
	}
	i.Fields = append(i.Fields, field)
	return true
}
