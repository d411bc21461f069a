// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"errors"
	"fmt"
)

// Consistent Overhead Byte Stuffing (COBS). Encoding removes every
// zero byte from the payload by replacing each zero-terminated group
// with a one-byte distance code, so the zero byte is free to delimit
// frames on the stream. Worst-case overhead is one byte per 254
// payload bytes plus one leading code byte.

// ErrFrameCorrupt is returned when a COBS frame cannot be decoded:
// an embedded zero byte, a truncated group, or an empty frame.
var ErrFrameCorrupt = errors.New("wire: corrupt COBS frame")

// cobsMaxGroup is the longest run of non-zero bytes one code byte can
// cover (code 0xFF = 254 bytes, no implied zero).
const cobsMaxGroup = 254

// CobsEncodedLen returns the worst-case COBS-encoded size of an
// n-byte payload, excluding the frame delimiter.
func CobsEncodedLen(n int) int {
	return n + n/cobsMaxGroup + 1
}

// CobsEncode appends the COBS encoding of src to dst and returns the
// extended slice. The output contains no zero bytes.
func CobsEncode(dst, src []byte) []byte {
	codeIndex := len(dst)
	dst = append(dst, 0)
	code := byte(1)

	for _, b := range src {
		if b == 0 {
			dst[codeIndex] = code
			codeIndex = len(dst)
			dst = append(dst, 0)
			code = 1
			continue
		}
		dst = append(dst, b)
		code++
		if code == 0xFF {
			dst[codeIndex] = code
			codeIndex = len(dst)
			dst = append(dst, 0)
			code = 1
		}
	}

	dst[codeIndex] = code
	return dst
}

// CobsDecode appends the decoded payload of a single COBS frame
// (without its trailing delimiter) to dst and returns the extended
// slice. Returns ErrFrameCorrupt if the frame is malformed.
func CobsDecode(dst, frame []byte) ([]byte, error) {
	if len(frame) == 0 {
		return dst, fmt.Errorf("%w: empty frame", ErrFrameCorrupt)
	}

	i := 0
	for i < len(frame) {
		code := frame[i]
		if code == 0 {
			return dst, fmt.Errorf("%w: zero code byte at offset %d", ErrFrameCorrupt, i)
		}
		i++

		groupEnd := i + int(code) - 1
		if groupEnd > len(frame) {
			return dst, fmt.Errorf("%w: truncated group at offset %d", ErrFrameCorrupt, i)
		}
		for ; i < groupEnd; i++ {
			if frame[i] == 0 {
				return dst, fmt.Errorf("%w: embedded zero at offset %d", ErrFrameCorrupt, i)
			}
			dst = append(dst, frame[i])
		}

		// Every group except a maximal one and the final group implies
		// a zero byte in the payload.
		if code != 0xFF && i < len(frame) {
			dst = append(dst, 0)
		}
	}
	return dst, nil
}
