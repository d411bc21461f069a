// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package trace

import (
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	t.Parallel()

	cases := map[Level]string{
		LevelError: "error",
		LevelWarn:  "warn",
		LevelInfo:  "info",
		LevelDebug: "debug",
		LevelTrace: "trace",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Fatalf("Level(%d).String(): expected %q, got %q", level, want, got)
		}
	}
	if got := Level(9).String(); !strings.Contains(got, "9") {
		t.Fatalf("unknown level should render its value, got %q", got)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	for _, level := range []Level{LevelError, LevelWarn, LevelInfo, LevelDebug, LevelTrace} {
		parsed, err := ParseLevel(level.String())
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", level.String(), err)
		}
		if parsed != level {
			t.Fatalf("ParseLevel(%q): expected %d, got %d", level.String(), level, parsed)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level name")
	}
}
