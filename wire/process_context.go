// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"os"

	"golang.org/x/sys/unix"
)

// pid is captured once; it cannot change within a process.
var pid = int32(os.Getpid())

// CaptureProcessContext returns the current process and OS thread
// identity. The thread id is the kernel task id of whichever thread
// the calling goroutine happens to be scheduled on — useful for
// correlating trace packets with scheduler traces on the collector
// side, not a stable goroutine identity.
func CaptureProcessContext() *ProcessContext {
	return &ProcessContext{
		PID: pid,
		TID: int32(unix.Gettid()),
	}
}
