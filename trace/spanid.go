// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package trace

import (
	"sync/atomic"

	"github.com/tracewire-foundation/tracewire/wire"
)

// spanIDCounter backs the process-wide span-identity allocator. The
// counter is shared by every Tracer in the process so ids stay unique
// even when multiple backends coexist (production pipeline plus an
// in-memory tracer in tests).
var spanIDCounter atomic.Uint64

// nextSpanID allocates the next span id. Ids start at 1 and increase
// monotonically; zero is never returned. Allocation never fails and is
// independent of the pipeline's enabled state.
func nextSpanID() wire.SpanID {
	return wire.SpanID(spanIDCounter.Add(1))
}
