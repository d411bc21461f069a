// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package trace

import "fmt"

// Level is the severity of a span or event. Lower values are more
// severe; a tracer configured with maximum level L emits exactly the
// calls at or below L.
type Level uint8

const (
	LevelError Level = 1
	LevelWarn  Level = 2
	LevelInfo  Level = 3
	LevelDebug Level = 4
	LevelTrace Level = 5
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	case LevelTrace:
		return "trace"
	default:
		return fmt.Sprintf("level(%d)", uint8(l))
	}
}

// ParseLevel converts a level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "error":
		return LevelError, nil
	case "warn":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	case "trace":
		return LevelTrace, nil
	default:
		return 0, fmt.Errorf("unknown trace level %q", s)
	}
}
