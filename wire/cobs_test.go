// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"bytes"
	"errors"
	"testing"
)

func cobsRoundTrip(t *testing.T, payload []byte) {
	t.Helper()

	encoded := CobsEncode(nil, payload)
	if bytes.IndexByte(encoded, 0) != -1 {
		t.Fatalf("encoded frame contains a zero byte: %v", encoded)
	}
	if len(encoded) > CobsEncodedLen(len(payload)) {
		t.Fatalf("encoded length %d exceeds bound %d", len(encoded), CobsEncodedLen(len(payload)))
	}

	decoded, err := CobsDecode(nil, encoded)
	if err != nil {
		t.Fatalf("CobsDecode: %v", err)
	}
	if !bytes.Equal(decoded, payload) {
		t.Fatalf("round trip mismatch: payload %v, decoded %v", payload, decoded)
	}
}

func TestCobsRoundTrip(t *testing.T) {
	t.Parallel()

	payloads := [][]byte{
		{},
		{0},
		{0, 0, 0},
		{1},
		{1, 2, 3},
		{1, 0, 2, 0, 3},
		{0, 1, 0},
		bytes.Repeat([]byte{7}, 253),
		bytes.Repeat([]byte{7}, 254),
		bytes.Repeat([]byte{7}, 255),
		bytes.Repeat([]byte{7}, 600),
		append(bytes.Repeat([]byte{7}, 254), 0),
		append([]byte{0}, bytes.Repeat([]byte{7}, 254)...),
	}

	for _, payload := range payloads {
		cobsRoundTrip(t, payload)
	}
}

func TestCobsDecodeEmptyFrame(t *testing.T) {
	t.Parallel()

	if _, err := CobsDecode(nil, nil); !errors.Is(err, ErrFrameCorrupt) {
		t.Fatalf("expected ErrFrameCorrupt, got %v", err)
	}
}

func TestCobsDecodeEmbeddedZero(t *testing.T) {
	t.Parallel()

	// Code byte claims 3 payload bytes but one of them is zero.
	frame := []byte{4, 1, 0, 2}
	if _, err := CobsDecode(nil, frame); !errors.Is(err, ErrFrameCorrupt) {
		t.Fatalf("expected ErrFrameCorrupt, got %v", err)
	}
}

func TestCobsDecodeTruncatedGroup(t *testing.T) {
	t.Parallel()

	// Code byte promises more bytes than the frame holds.
	frame := []byte{5, 1, 2}
	if _, err := CobsDecode(nil, frame); !errors.Is(err, ErrFrameCorrupt) {
		t.Fatalf("expected ErrFrameCorrupt, got %v", err)
	}
}

func TestCobsEncodeAppendsToDst(t *testing.T) {
	t.Parallel()

	prefix := []byte{9, 9}
	encoded := CobsEncode(prefix, []byte{1, 2})
	if !bytes.Equal(encoded[:2], prefix) {
		t.Fatalf("CobsEncode clobbered dst prefix: %v", encoded)
	}
	decoded, err := CobsDecode(nil, encoded[2:])
	if err != nil {
		t.Fatalf("CobsDecode: %v", err)
	}
	if !bytes.Equal(decoded, []byte{1, 2}) {
		t.Fatalf("expected [1 2], got %v", decoded)
	}
}
