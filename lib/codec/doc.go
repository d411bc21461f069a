// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec centralizes Tracewire's CBOR configuration. All wire
// encoding and decoding goes through this package so that every
// component — the transport worker, the collector, the offline
// decoder, and tests — agrees on one encoding.
//
// Encoding uses Core Deterministic Encoding (RFC 8949 §4.2): the same
// packet always produces identical bytes. That property is what makes
// recorded packet logs byte-comparable in tests and lets the decoder
// verify recordings against their checksum sidecars.
package codec
