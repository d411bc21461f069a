// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

// Tracewire-decode renders a recorded trace stream offline. It reads a
// recording produced by tracewire-collector (or any capture of the raw
// socket stream), transparently decompressing zstd, and prints each
// packet as text (default), JSON (--json), or CBOR diagnostic notation
// (--diag, layout-agnostic, useful when the packet schema and the
// decoder disagree).
//
// With --verify the recording's blake3 checksum sidecar is checked
// against the decoded frame bytes before the exit status is decided.
package main
