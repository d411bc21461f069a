// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

// Package trace implements the instrumentation-facing side of the
// Tracewire pipeline: the Tracer capability set consumed by
// instrumented application code, the process-wide span-identity
// allocator, and the background transport worker that ships packets to
// the collector over a unix socket.
//
// The package is organized around the packet's path out of the process:
//
//   - tracer.go: the Tracer capability set, the no-op backend, and the
//     install-once process-wide default
//   - pipeline.go: the production Tracer — builds wire packets and
//     enqueues them on the bounded queue
//   - spanid.go: the process-wide span-identity allocator
//   - current.go: per-goroutine entered-span tracking for event
//     attribution
//   - worker.go: the single consumer goroutine — encode, frame, batch,
//     flush, and the one-way fail-safe degrade policy
//   - memory.go: an in-memory Tracer for testing instrumented code
//
// Design constraints carried throughout: a tracer failure never
// crashes or alters instrumented application logic (the only blocking
// the caller can observe is the bounded backpressure wait while the
// pipeline is healthy and the queue is momentarily full); the degrade
// latch moves from enabled to disabled exactly once and never back;
// and no packet is silently dropped for capacity reasons, producers
// wait instead.
package trace
