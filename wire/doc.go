// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire defines the trace packet wire format: the packet
// envelope and its payload variants, the bounded name/field buffers,
// CBOR serialization into fixed-capacity buffers, and COBS stream
// framing.
//
// The format is a private contract between the pipeline and its paired
// collector — there is no version negotiation and no handshake. Each
// packet is CBOR (Core Deterministic Encoding, via lib/codec) wrapped
// in a COBS frame and terminated by a single zero byte, so the
// collector can split the stream on zero bytes without any length
// prefix.
//
// All sizes are compile-time constants: MaxPacketSize bounds one
// encoded packet, MaxInfoSize bounds any single name or field string,
// MaxFields bounds the structured field set. Serialization never grows
// a buffer; a packet that does not fit is an error the caller drops.
package wire
