// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts time for the trace pipeline. Production code
// injects Real(); tests inject Fake() and advance it deterministically,
// which is how the transport worker's flush-interval behavior is tested
// without real sleeps.
//
// Scaled wraps another Clock and stretches or compresses elapsed time
// by a constant factor. Replaying a recorded scenario faster than real
// time (or slower, for debugging timing-sensitive control code) uses a
// Scaled clock so the pipeline's timestamps stay consistent with the
// replayed world.
package clock
