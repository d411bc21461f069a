// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/tracewire-foundation/tracewire/lib/codec"
)

// Reader decodes a framed packet stream: it splits the stream on the
// frame delimiter, COBS-decodes each frame, and CBOR-decodes the
// payload. Used by the collector, the offline recording decoder, and
// tests — the pipeline itself never reads.
type Reader struct {
	r       *bufio.Reader
	payload []byte
}

// NewReader returns a Reader decoding from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:       bufio.NewReaderSize(r, CobsEncodedLen(MaxPacketSize)+1),
		payload: make([]byte, 0, MaxPacketSize),
	}
}

// NextPayload returns the CBOR payload of the next frame. The returned
// slice is valid until the following call. Returns io.EOF at a clean
// end of stream and io.ErrUnexpectedEOF if the stream ends inside a
// frame.
func (r *Reader) NextPayload() ([]byte, error) {
	frame, err := r.r.ReadBytes(FrameDelimiter)
	if err != nil {
		if errors.Is(err, io.EOF) {
			if len(frame) == 0 {
				return nil, io.EOF
			}
			return nil, io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}

	// Strip the delimiter.
	frame = frame[:len(frame)-1]

	r.payload, err = CobsDecode(r.payload[:0], frame)
	if err != nil {
		return nil, err
	}
	return r.payload, nil
}

// Next decodes the next packet from the stream. Returns io.EOF at a
// clean end of stream.
func (r *Reader) Next() (*Packet, error) {
	payload, err := r.NextPayload()
	if err != nil {
		return nil, err
	}
	var packet Packet
	if err := codec.Unmarshal(payload, &packet); err != nil {
		return nil, fmt.Errorf("decode packet: %w", err)
	}
	return &packet, nil
}
