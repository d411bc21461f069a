// Copyright 2026 The Tracewire Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// String renders the field as key=value for human-readable output.
func (f Field) String() string {
	switch f.Kind {
	case FieldKindString:
		return f.Key + "=" + strconv.Quote(f.Str)
	case FieldKindInt:
		return f.Key + "=" + strconv.FormatInt(f.Int, 10)
	case FieldKindUint:
		return f.Key + "=" + strconv.FormatUint(f.Uint, 10)
	case FieldKindFloat:
		return f.Key + "=" + strconv.FormatFloat(f.Float, 'g', -1, 64)
	case FieldKindBool:
		return f.Key + "=" + strconv.FormatBool(f.Bool)
	default:
		return f.Key + "=?"
	}
}

// String renders the packet on one line for the collector's live
// output and the offline decoder's text mode.
func (p *Packet) String() string {
	var b strings.Builder

	b.WriteString(time.Unix(0, p.Time).UTC().Format(time.RFC3339Nano))
	b.WriteByte(' ')
	b.WriteString(p.Kind.String())

	switch p.Kind {
	case KindNewSpan:
		fmt.Fprintf(&b, " id=%d name=%q name_len=%d", p.ID, p.Name, p.NameLen)
	case KindRecord:
		fmt.Fprintf(&b, " span=%d", p.Span)
	case KindEvent:
		if p.ParentSpan != nil {
			fmt.Fprintf(&b, " parent_span=%d", *p.ParentSpan)
		}
		fmt.Fprintf(&b, " name=%q name_len=%d", p.Name, p.NameLen)
	case KindEnter, KindExit:
		fmt.Fprintf(&b, " span=%d", p.Span)
	}

	if p.Info != nil {
		for _, field := range p.Info.Fields {
			b.WriteByte(' ')
			b.WriteString(field.String())
		}
		if p.Info.Dropped > 0 {
			fmt.Fprintf(&b, " dropped_fields=%d", p.Info.Dropped)
		}
	}

	if p.Process != nil {
		fmt.Fprintf(&b, " pid=%d tid=%d", p.Process.PID, p.Process.TID)
	}

	return b.String()
}
