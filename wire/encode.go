// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"errors"
	"fmt"

	"github.com/tracewire-foundation/tracewire/lib/codec"
)

// ErrPacketTooLarge is returned when a packet's CBOR encoding exceeds
// MaxPacketSize. The transport worker drops the packet and keeps
// streaming; it is a per-packet failure, not a transport failure.
var ErrPacketTooLarge = errors.New("wire: encoded packet exceeds MaxPacketSize")

// Buffer is a fixed-capacity byte sink. Writes that would exceed the
// capacity fail with ErrPacketTooLarge instead of growing the backing
// array, keeping per-packet memory bounded and allocation-free after
// construction.
type Buffer struct {
	data []byte
}

// NewBuffer returns a Buffer with the given fixed capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{data: make([]byte, 0, capacity)}
}

// Write appends p, failing without partial effect if p does not fit
// in the remaining capacity.
func (b *Buffer) Write(p []byte) (int, error) {
	if len(b.data)+len(p) > cap(b.data) {
		return 0, ErrPacketTooLarge
	}
	b.data = append(b.data, p...)
	return len(p), nil
}

// Bytes returns the buffered bytes. Valid until the next Reset.
func (b *Buffer) Bytes() []byte { return b.data }

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int { return len(b.data) }

// Reset empties the buffer, retaining its capacity.
func (b *Buffer) Reset() { b.data = b.data[:0] }

// Encoder serializes packets into reusable fixed-size buffers: CBOR
// into a MaxPacketSize buffer, then COBS plus the frame delimiter into
// a frame buffer. It allocates once at construction and never grows.
//
// Not safe for concurrent use; the transport worker owns one Encoder
// exclusively.
type Encoder struct {
	buf   *Buffer
	enc   *codec.Encoder
	frame []byte
}

// NewEncoder returns an Encoder with its buffers preallocated.
func NewEncoder() *Encoder {
	buf := NewBuffer(MaxPacketSize)
	return &Encoder{
		buf:   buf,
		enc:   codec.NewEncoder(buf),
		frame: make([]byte, 0, CobsEncodedLen(MaxPacketSize)+1),
	}
}

// Frame serializes packet and returns its framed wire bytes: COBS-
// encoded CBOR followed by the frame delimiter. The returned slice
// aliases the Encoder's internal buffer and is valid only until the
// next Frame call. Returns ErrPacketTooLarge (wrapped) if the packet
// does not fit in MaxPacketSize.
func (e *Encoder) Frame(packet *Packet) ([]byte, error) {
	e.buf.Reset()
	if err := e.enc.Encode(packet); err != nil {
		return nil, fmt.Errorf("encode packet: %w", err)
	}
	e.frame = CobsEncode(e.frame[:0], e.buf.Bytes())
	e.frame = append(e.frame, FrameDelimiter)
	return e.frame, nil
}
