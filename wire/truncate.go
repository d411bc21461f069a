// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import "unicode/utf8"

// Truncate returns the longest prefix of s that is at most max bytes
// long and ends on a UTF-8 rune boundary, together with its byte
// length. A multi-byte character straddling the limit is dropped
// entirely, so the result always decodes as valid text when the input
// does. The returned length is what producers record next to the
// capacity-bounded name so consumers can distinguish "fit exactly"
// from "was cut".
func Truncate(s string, max int) (string, int) {
	if max < 0 {
		max = 0
	}
	if len(s) <= max {
		return s, len(s)
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], cut
}
