// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package trace

import (
	"bufio"
	"log/slog"
	"net"
	"sync/atomic"

	"github.com/tracewire-foundation/tracewire/lib/clock"
	"github.com/tracewire-foundation/tracewire/wire"
)

// worker is the single consumer of the packet queue. Its lifecycle is
// three states, entered in order and never revisited:
//
//	connecting: one dial attempt against the collector socket
//	streaming:  encode, frame, batch, flush on a fixed interval
//	disabled:   latch flipped off, goroutine gone
//
// Any transport failure moves it straight to disabled. The owning
// process is never disturbed: the worker logs the reason through the
// pipeline's logger and disappears.
type worker struct {
	queue   <-chan wire.Packet
	done    chan struct{}
	enabled *atomic.Bool
	dial    func() (net.Conn, error)
	clock   clock.Clock
	logger  *slog.Logger
}

func (w *worker) run() {
	conn, err := w.dial()
	if err != nil {
		w.logger.Error("trace collector unreachable, tracing disabled",
			"error", err)
		w.disable()
		return
	}
	defer conn.Close()

	// Batched writes: frames accumulate here and reach the collector
	// when the buffer fills or the flush ticker fires.
	out := bufio.NewWriterSize(conn, BatchBufferSize)
	encoder := wire.NewEncoder()
	ticker := w.clock.NewTicker(FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case packet, ok := <-w.queue:
			if !ok {
				// The queue is owned by the pipeline and never closed;
				// a closed queue means memory corruption or misuse, not
				// a runtime condition to degrade on.
				panic("trace: packet queue closed while transport worker running")
			}
			frame, err := encoder.Frame(&packet)
			if err != nil {
				// Per-packet failure: drop this packet, keep streaming.
				w.logger.Error("trace packet dropped, encoding failed",
					"error", err,
					"kind", packet.Kind.String())
				continue
			}
			if _, err := out.Write(frame); err != nil {
				w.logger.Error("trace collector write failed, tracing disabled",
					"error", err)
				w.disable()
				return
			}

		case <-ticker.C:
			if out.Buffered() == 0 {
				continue
			}
			if err := out.Flush(); err != nil {
				w.logger.Error("trace collector flush failed, tracing disabled",
					"error", err)
				w.disable()
				return
			}
		}
	}
}

// disable flips the latch off, then wakes producers blocked on a full
// queue. Order matters: by the time a producer sees done closed, the
// latch already reads disabled.
func (w *worker) disable() {
	w.enabled.Store(false)
	close(w.done)
}
