// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

// Tracewire-collector is the development-side receiver for the trace
// pipeline. It listens on the unix socket traced processes dial,
// decodes the framed packet stream from each connection, prints every
// packet as one human-readable line on stdout, and optionally records
// the raw stream to a file for offline decoding with tracewire-decode.
//
// Recordings can be zstd-compressed and are accompanied by a blake3
// checksum sidecar (<path>.b3sum) written on shutdown, so a recording
// copied off a test rig can be verified before analysis.
//
// Configuration comes from an optional YAML file (--config) with flag
// overrides; the zero configuration listens on the default socket and
// records nothing.
package main
